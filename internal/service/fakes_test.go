package service

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/repository"
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. The event and workout fakes record every range
// query so tests can assert how deletes were batched.

type rangeCall struct {
	start time.Time
	end   time.Time
}

// --- programs ---

type fakeProgramRepo struct {
	programs map[primitive.ObjectID]*domain.ClientProgram

	// afterGetByID, when set, runs after each GetByID read returns its copy.
	// Tests use it to interleave a competing write into that window.
	afterGetByID func()
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: map[primitive.ObjectID]*domain.ClientProgram{}}
}

func (f *fakeProgramRepo) Create(_ context.Context, program *domain.ClientProgram) (primitive.ObjectID, error) {
	program.ID = primitive.NewObjectID()
	cp := *program
	f.programs[program.ID] = &cp
	return program.ID, nil
}

func (f *fakeProgramRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ClientProgram, error) {
	p, ok := f.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	cp.Periods = append([]domain.Period(nil), p.Periods...)
	if f.afterGetByID != nil {
		f.afterGetByID()
	}
	return &cp, nil
}

func (f *fakeProgramRepo) GetActiveByClient(_ context.Context, clientID primitive.ObjectID) (*domain.ClientProgram, error) {
	for _, p := range f.programs {
		if p.ClientID == clientID && p.Status == domain.ProgramActive {
			cp := *p
			cp.Periods = append([]domain.Period(nil), p.Periods...)
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProgramRepo) ReplacePeriods(_ context.Context, programID primitive.ObjectID, periods []domain.Period) error {
	p, ok := f.programs[programID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Periods = append([]domain.Period(nil), periods...)
	return nil
}

func (f *fakeProgramRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.programs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.programs, id)
	return nil
}

// --- calendar events ---

type fakeEventRepo struct {
	events           map[primitive.ObjectID]*domain.CalendarEvent
	clientRangeCalls []rangeCall
	summaryCalls     []string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[primitive.ObjectID]*domain.CalendarEvent{}}
}

func (f *fakeEventRepo) Create(_ context.Context, event *domain.CalendarEvent) (primitive.ObjectID, error) {
	event.ID = primitive.NewObjectID()
	ce := *event
	f.events[event.ID] = &ce
	return event.ID, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CalendarEvent, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ce := *e
	return &ce, nil
}

func (f *fakeEventRepo) ListByRange(_ context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	var out []domain.CalendarEvent
	for _, e := range f.events {
		if !e.Start.After(domain.DayEnd(end)) && !e.End.Before(domain.DayStart(start)) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByClientAndRange(_ context.Context, clientID primitive.ObjectID, start, end time.Time) ([]domain.CalendarEvent, error) {
	f.clientRangeCalls = append(f.clientRangeCalls, rangeCall{start: start, end: end})
	var out []domain.CalendarEvent
	for _, e := range f.events {
		if e.Start.After(domain.DayEnd(end)) || e.End.Before(domain.DayStart(start)) {
			continue
		}
		if e.LinkedClientHex() == clientID.Hex() {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListBySummaryAndRange(_ context.Context, summarySubstring string, start, end time.Time) ([]domain.CalendarEvent, error) {
	f.summaryCalls = append(f.summaryCalls, summarySubstring)
	var out []domain.CalendarEvent
	for _, e := range f.events {
		if e.Start.After(domain.DayEnd(end)) || e.End.Before(domain.DayStart(start)) {
			continue
		}
		if strings.Contains(strings.ToLower(e.Summary), strings.ToLower(summarySubstring)) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *domain.CalendarEvent) error {
	if _, ok := f.events[event.ID]; !ok {
		return repository.ErrNotFound
	}
	ce := *event
	f.events[event.ID] = &ce
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

// --- workouts ---

type fakeWorkoutRepo struct {
	workouts   map[primitive.ObjectID]*domain.ClientWorkout
	rangeCalls []rangeCall
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: map[primitive.ObjectID]*domain.ClientWorkout{}}
}

func (f *fakeWorkoutRepo) Create(_ context.Context, workout *domain.ClientWorkout) (primitive.ObjectID, error) {
	workout.ID = primitive.NewObjectID()
	workout.DayOfWeek = int(workout.Date.UTC().Weekday())
	cw := *workout
	f.workouts[workout.ID] = &cw
	return workout.ID, nil
}

func (f *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ClientWorkout, error) {
	w, ok := f.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cw := *w
	return &cw, nil
}

func (f *fakeWorkoutRepo) ListByDateRange(_ context.Context, clientID primitive.ObjectID, start, end time.Time) ([]domain.ClientWorkout, error) {
	f.rangeCalls = append(f.rangeCalls, rangeCall{start: start, end: end})
	var out []domain.ClientWorkout
	for _, w := range f.workouts {
		if w.ClientID == clientID && domain.DateInRange(w.Date, start, end) {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWorkoutRepo) Update(_ context.Context, workout *domain.ClientWorkout) error {
	if _, ok := f.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	cw := *workout
	f.workouts[workout.ID] = &cw
	return nil
}

func (f *fakeWorkoutRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.workouts, id)
	return nil
}

// --- week templates ---

type fakeTemplateRepo struct {
	templates map[primitive.ObjectID]*domain.WeekTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: map[primitive.ObjectID]*domain.WeekTemplate{}}
}

func (f *fakeTemplateRepo) Create(_ context.Context, template *domain.WeekTemplate) (primitive.ObjectID, error) {
	template.ID = primitive.NewObjectID()
	t := *template
	f.templates[template.ID] = &t
	return template.ID, nil
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WeekTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ct := *t
	return &ct, nil
}

func (f *fakeTemplateRepo) List(_ context.Context) ([]domain.WeekTemplate, error) {
	var out []domain.WeekTemplate
	for _, t := range f.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, template *domain.WeekTemplate) error {
	if _, ok := f.templates[template.ID]; !ok {
		return repository.ErrNotFound
	}
	t := *template
	f.templates[template.ID] = &t
	return nil
}

func (f *fakeTemplateRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.templates, id)
	return nil
}

// --- period configs ---

type fakePeriodConfigRepo struct {
	configs map[primitive.ObjectID]*domain.PeriodConfig
}

func newFakePeriodConfigRepo() *fakePeriodConfigRepo {
	return &fakePeriodConfigRepo{configs: map[primitive.ObjectID]*domain.PeriodConfig{}}
}

func (f *fakePeriodConfigRepo) Create(_ context.Context, config *domain.PeriodConfig) (primitive.ObjectID, error) {
	config.ID = primitive.NewObjectID()
	c := *config
	f.configs[config.ID] = &c
	return config.ID, nil
}

func (f *fakePeriodConfigRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PeriodConfig, error) {
	c, ok := f.configs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (f *fakePeriodConfigRepo) List(_ context.Context) ([]domain.PeriodConfig, error) {
	var out []domain.PeriodConfig
	for _, c := range f.configs {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakePeriodConfigRepo) Update(_ context.Context, config *domain.PeriodConfig) error {
	if _, ok := f.configs[config.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *config
	f.configs[config.ID] = &c
	return nil
}

func (f *fakePeriodConfigRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.configs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.configs, id)
	return nil
}

// --- movements ---

type fakeMovementRepo struct {
	movements map[primitive.ObjectID]*domain.Movement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{movements: map[primitive.ObjectID]*domain.Movement{}}
}

func (f *fakeMovementRepo) Create(_ context.Context, movement *domain.Movement) (primitive.ObjectID, error) {
	movement.ID = primitive.NewObjectID()
	m := *movement
	f.movements[movement.ID] = &m
	return movement.ID, nil
}

func (f *fakeMovementRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Movement, error) {
	m, ok := f.movements[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cm := *m
	return &cm, nil
}

func (f *fakeMovementRepo) List(_ context.Context) ([]domain.Movement, error) {
	var out []domain.Movement
	for _, m := range f.movements {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMovementRepo) Update(_ context.Context, movement *domain.Movement) error {
	if _, ok := f.movements[movement.ID]; !ok {
		return repository.ErrNotFound
	}
	m := *movement
	f.movements[movement.ID] = &m
	return nil
}

func (f *fakeMovementRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.movements[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.movements, id)
	return nil
}

// --- workout templates ---

type fakeWorkoutTemplateRepo struct {
	templates map[primitive.ObjectID]*domain.WorkoutTemplate
}

func newFakeWorkoutTemplateRepo() *fakeWorkoutTemplateRepo {
	return &fakeWorkoutTemplateRepo{templates: map[primitive.ObjectID]*domain.WorkoutTemplate{}}
}

func (f *fakeWorkoutTemplateRepo) Create(_ context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	template.ID = primitive.NewObjectID()
	t := *template
	f.templates[template.ID] = &t
	return template.ID, nil
}

func (f *fakeWorkoutTemplateRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ct := *t
	return &ct, nil
}

func (f *fakeWorkoutTemplateRepo) List(_ context.Context) ([]domain.WorkoutTemplate, error) {
	var out []domain.WorkoutTemplate
	for _, t := range f.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeWorkoutTemplateRepo) Update(_ context.Context, template *domain.WorkoutTemplate) error {
	if _, ok := f.templates[template.ID]; !ok {
		return repository.ErrNotFound
	}
	t := *template
	f.templates[template.ID] = &t
	return nil
}

func (f *fakeWorkoutTemplateRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.templates, id)
	return nil
}

// --- categories ---

type fakeCategoryRepo struct {
	categories map[string]*domain.WorkoutCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*domain.WorkoutCategory{}}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *domain.WorkoutCategory) (primitive.ObjectID, error) {
	category.ID = primitive.NewObjectID()
	c := *category
	f.categories[category.Name] = &c
	return category.ID, nil
}

func (f *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.WorkoutCategory, error) {
	c, ok := f.categories[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]domain.WorkoutCategory, error) {
	var out []domain.WorkoutCategory
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, category *domain.WorkoutCategory) error {
	f.categories[category.Name] = category
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for name, c := range f.categories {
		if c.ID == id {
			delete(f.categories, name)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- clients ---

type fakeClientRepo struct {
	clients map[primitive.ObjectID]*domain.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[primitive.ObjectID]*domain.Client{}}
}

func (f *fakeClientRepo) Create(_ context.Context, client *domain.Client) (primitive.ObjectID, error) {
	client.ID = primitive.NewObjectID()
	c := *client
	f.clients[client.ID] = &c
	return client.ID, nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (f *fakeClientRepo) List(_ context.Context, includeDeleted bool) ([]domain.Client, error) {
	var out []domain.Client
	for _, c := range f.clients {
		if c.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClientRepo) Update(_ context.Context, client *domain.Client) error {
	if _, ok := f.clients[client.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *client
	f.clients[client.ID] = &c
	return nil
}

func (f *fakeClientRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	c, ok := f.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.IsDeleted = true
	return nil
}

// --- operation log ---

type fakeOplogRepo struct {
	records map[primitive.ObjectID]*domain.OperationRecord
}

func newFakeOplogRepo() *fakeOplogRepo {
	return &fakeOplogRepo{records: map[primitive.ObjectID]*domain.OperationRecord{}}
}

func (f *fakeOplogRepo) Create(_ context.Context, record *domain.OperationRecord) (primitive.ObjectID, error) {
	record.ID = primitive.NewObjectID()
	record.Status = domain.OpPending
	r := *record
	f.records[record.ID] = &r
	return record.ID, nil
}

func (f *fakeOplogRepo) MarkCompleted(_ context.Context, id primitive.ObjectID) error {
	r, ok := f.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = domain.OpCompleted
	now := time.Now().UTC()
	r.CompletedAt = &now
	return nil
}

func (f *fakeOplogRepo) ListPending(_ context.Context) ([]domain.OperationRecord, error) {
	var out []domain.OperationRecord
	for _, r := range f.records {
		if r.Status == domain.OpPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

// --- archive ---

type fakeArchive struct {
	snapshots map[string]any
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{snapshots: map[string]any{}}
}

func (f *fakeArchive) PutSnapshot(_ context.Context, objectKey string, payload any) error {
	f.snapshots[objectKey] = payload
	return nil
}

func (f *fakeArchive) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://archive.test/" + objectKey, nil
}

func (f *fakeArchive) DeleteObject(_ context.Context, objectKey string) error {
	delete(f.snapshots, objectKey)
	return nil
}

// testEnv bundles the fakes behind a ready-to-use service.
type testEnv struct {
	programs         *fakeProgramRepo
	events           *fakeEventRepo
	workouts         *fakeWorkoutRepo
	templates        *fakeTemplateRepo
	categories       *fakeCategoryRepo
	clients          *fakeClientRepo
	movements        *fakeMovementRepo
	workoutTemplates *fakeWorkoutTemplateRepo
	oplog            *fakeOplogRepo
	archive          *fakeArchive
	recon            ReconciliationService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		programs:         newFakeProgramRepo(),
		events:           newFakeEventRepo(),
		workouts:         newFakeWorkoutRepo(),
		templates:        newFakeTemplateRepo(),
		categories:       newFakeCategoryRepo(),
		clients:          newFakeClientRepo(),
		movements:        newFakeMovementRepo(),
		workoutTemplates: newFakeWorkoutTemplateRepo(),
		oplog:            newFakeOplogRepo(),
		archive:          newFakeArchive(),
	}
	env.recon = NewReconciliationService(
		env.programs, env.events, env.workouts, env.templates,
		env.categories, env.clients, env.oplog, env.archive,
	)
	return env
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
