package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"todo-board/model"
)

type recordingPersister struct {
	taskWrites [][]model.Task
	darkWrites []bool
	err        error
}

func (p *recordingPersister) SaveTasks(_ context.Context, tasks []model.Task) error {
	p.taskWrites = append(p.taskWrites, tasks)
	return p.err
}

func (p *recordingPersister) SaveDarkMode(_ context.Context, dark bool) error {
	p.darkWrites = append(p.darkWrites, dark)
	return p.err
}

func (p *recordingPersister) lastTasks(t *testing.T) []model.Task {
	t.Helper()
	if len(p.taskWrites) == 0 {
		t.Fatalf("expected at least one task write")
	}
	return p.taskWrites[len(p.taskWrites)-1]
}

func mustCreate(t *testing.T, svc *Service, msg string) model.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), msg)
	if err != nil {
		t.Fatalf("create %q failed: %v", msg, err)
	}
	return task
}

func messages(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Message)
	}
	return out
}

func TestCreateAppendsAndPersists(t *testing.T) {
	p := &recordingPersister{}
	svc := NewService(model.NewState(), p)
	mustCreate(t, svc, "first")

	before := len(svc.VisibleTasks(model.FilterAll, ""))
	task := mustCreate(t, svc, "  second  ")

	visible := svc.VisibleTasks(model.FilterAll, "")
	if len(visible) != before+1 {
		t.Fatalf("expected visible count %d, got %d", before+1, len(visible))
	}
	if visible[len(visible)-1].ID != task.ID {
		t.Fatalf("expected new task appended last, got %+v", visible)
	}
	if task.Status != model.StatusToDo || task.Deleted {
		t.Fatalf("unexpected defaults: %+v", task)
	}
	if task.Message != "  second  " {
		t.Fatalf("expected message stored as entered, got %q", task.Message)
	}
	if !reflect.DeepEqual(p.lastTasks(t), svc.Tasks()) {
		t.Fatalf("expected full list persisted")
	}
}

func TestCreateRejectsBlankMessage(t *testing.T) {
	p := &recordingPersister{}
	svc := NewService(model.NewState(), p)
	mustCreate(t, svc, "keep")
	writes := len(p.taskWrites)

	for _, blank := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Create(context.Background(), blank); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("expected ErrEmptyMessage for %q, got %v", blank, err)
		}
	}
	if len(svc.Tasks()) != 1 {
		t.Fatalf("expected list unchanged, got %+v", svc.Tasks())
	}
	if len(p.taskWrites) != writes {
		t.Fatalf("expected no write for rejected input")
	}
}

func TestCreateRejectsInvalidUTF8(t *testing.T) {
	p := &recordingPersister{}
	svc := NewService(model.NewState(), p)

	if _, err := svc.Create(context.Background(), "bad\xffbyte"); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
	if len(svc.Tasks()) != 0 || len(p.taskWrites) != 0 {
		t.Fatalf("expected nothing stored, tasks=%+v writes=%d", svc.Tasks(), len(p.taskWrites))
	}
	mustCreate(t, svc, "café ☕")
}

func TestSetStatusTouchesOnlyTarget(t *testing.T) {
	p := &recordingPersister{}
	svc := NewService(model.NewState(), p)
	mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B")
	mustCreate(t, svc, "C")
	before := svc.Tasks()

	changed, err := svc.SetStatus(context.Background(), b.ID, model.StatusDone)
	if err != nil || !changed {
		t.Fatalf("set status failed: changed=%v err=%v", changed, err)
	}

	after := svc.Tasks()
	if !reflect.DeepEqual(before[0], after[0]) || !reflect.DeepEqual(before[2], after[2]) {
		t.Fatalf("siblings changed\nbefore=%+v\nafter=%+v", before, after)
	}
	want := before[1]
	want.Status = model.StatusDone
	if !reflect.DeepEqual(want, after[1]) {
		t.Fatalf("target mismatch\nwant=%+v\ngot=%+v", want, after[1])
	}

	// any status may move to any other directly
	if _, err := svc.SetStatus(context.Background(), b.ID, model.StatusToDo); err != nil {
		t.Fatalf("done -> todo failed: %v", err)
	}
}

func TestSetStatusMissingIDIsNoop(t *testing.T) {
	p := &recordingPersister{}
	svc := NewService(model.NewState(), p)
	mustCreate(t, svc, "A")
	writes := len(p.taskWrites)
	before := svc.Tasks()

	changed, err := svc.SetStatus(context.Background(), "missing", model.StatusDoing)
	if err != nil || changed {
		t.Fatalf("expected silent no-op, got changed=%v err=%v", changed, err)
	}
	if len(p.taskWrites) != writes || !reflect.DeepEqual(before, svc.Tasks()) {
		t.Fatalf("expected no change and no write")
	}

	if _, err := svc.SetStatus(context.Background(), before[0].ID, "later"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSoftDeleteHidesExactlyOneAndIsIdempotent(t *testing.T) {
	p := &recordingPersister{}
	svc := NewService(model.NewState(), p)
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B")
	c := mustCreate(t, svc, "C")

	changed, err := svc.SoftDelete(context.Background(), b.ID)
	if err != nil || !changed {
		t.Fatalf("soft delete failed: changed=%v err=%v", changed, err)
	}
	visible := svc.VisibleTasks(model.FilterAll, "")
	if len(visible) != 2 || visible[0].ID != a.ID || visible[1].ID != c.ID {
		t.Fatalf("unexpected visible tasks: %+v", visible)
	}
	if len(svc.Tasks()) != 3 {
		t.Fatalf("expected soft delete to keep the record, got %d tasks", len(svc.Tasks()))
	}

	snapshot := svc.Tasks()
	if _, err := svc.SoftDelete(context.Background(), b.ID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if !reflect.DeepEqual(snapshot, svc.Tasks()) {
		t.Fatalf("expected repeated delete to change nothing")
	}

	changed, err = svc.SoftDelete(context.Background(), "missing")
	if err != nil || changed {
		t.Fatalf("expected missing id to be a no-op, got changed=%v err=%v", changed, err)
	}
}

func TestSoftDeleteAllEmptiesEveryView(t *testing.T) {
	p := &recordingPersister{}
	svc := NewService(model.NewState(), p)
	a := mustCreate(t, svc, "foo one")
	mustCreate(t, svc, "foo two")
	mustCreate(t, svc, "bar")
	if _, err := svc.SetStatus(context.Background(), a.ID, model.StatusDoing); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if _, err := svc.SoftDelete(context.Background(), a.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	n, err := svc.SoftDeleteAll(context.Background())
	if err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 newly deleted, got %d", n)
	}

	filters := []model.Filter{model.FilterAll, model.FilterToDo, model.FilterDoing, model.FilterDone}
	for _, f := range filters {
		for _, q := range []string{"", "foo", "bar"} {
			if got := svc.VisibleTasks(f, q); len(got) != 0 {
				t.Fatalf("expected empty view for filter=%s query=%q, got %+v", f, q, got)
			}
		}
	}

	n, err = svc.SoftDeleteAll(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("expected idempotent delete all, got n=%d err=%v", n, err)
	}
	for _, task := range p.lastTasks(t) {
		if !task.Deleted {
			t.Fatalf("expected persisted list fully deleted, got %+v", task)
		}
	}
}

func TestFilterAndSearchComposeAsIntersection(t *testing.T) {
	svc := NewService(model.NewState(), &recordingPersister{})
	doingFoo := mustCreate(t, svc, "Fix FOO parser")
	doingBar := mustCreate(t, svc, "bar cleanup")
	mustCreate(t, svc, "write foo docs")
	deletedFoo := mustCreate(t, svc, "foo leftovers")

	ctx := context.Background()
	for _, id := range []string{doingFoo.ID, doingBar.ID, deletedFoo.ID} {
		if _, err := svc.SetStatus(ctx, id, model.StatusDoing); err != nil {
			t.Fatalf("set status failed: %v", err)
		}
	}
	if _, err := svc.SoftDelete(ctx, deletedFoo.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got := svc.VisibleTasks(model.FilterDoing, "foo")
	if len(got) != 1 || got[0].ID != doingFoo.ID {
		t.Fatalf("expected only %q, got %+v", doingFoo.Message, got)
	}

	got = svc.VisibleTasks(model.FilterAll, "FOO")
	if !reflect.DeepEqual(messages(got), []string{"Fix FOO parser", "write foo docs"}) {
		t.Fatalf("unexpected search result: %v", messages(got))
	}
}

func TestSearchFoldsUnicodeCase(t *testing.T) {
	svc := NewService(model.NewState(), &recordingPersister{})
	mustCreate(t, svc, "Visit the ÉCOLE")
	mustCreate(t, svc, "Ölwechsel planen")

	if got := svc.VisibleTasks(model.FilterAll, "école"); len(got) != 1 {
		t.Fatalf("expected accented match, got %+v", got)
	}
	if got := svc.VisibleTasks(model.FilterAll, "ölWECHSEL"); len(got) != 1 {
		t.Fatalf("expected umlaut match, got %+v", got)
	}
}

func TestSearchKeepsSurroundingSpaces(t *testing.T) {
	svc := NewService(model.NewState(), &recordingPersister{})
	mustCreate(t, svc, "Buy milk")
	mustCreate(t, svc, "Walkdog")

	if got := svc.VisibleTasks(model.FilterAll, "milk "); len(got) != 0 {
		t.Fatalf("expected no match for trailing space, got %v", messages(got))
	}
	if got := svc.VisibleTasks(model.FilterAll, " MILK"); !reflect.DeepEqual(messages(got), []string{"Buy milk"}) {
		t.Fatalf("expected leading space to match inside message, got %v", messages(got))
	}
	if got := svc.VisibleTasks(model.FilterAll, " "); !reflect.DeepEqual(messages(got), []string{"Buy milk"}) {
		t.Fatalf("expected whitespace query to match only messages with a space, got %v", messages(got))
	}
}

func TestScenarioBuyMilkWalkDog(t *testing.T) {
	svc := NewService(model.NewState(), &recordingPersister{})
	ctx := context.Background()
	milk := mustCreate(t, svc, "Buy milk")
	dog := mustCreate(t, svc, "Walk dog")

	if _, err := svc.SetStatus(ctx, milk.ID, model.StatusDoing); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if got := messages(svc.VisibleTasks(model.FilterDoing, "")); !reflect.DeepEqual(got, []string{"Buy milk"}) {
		t.Fatalf("expected [Buy milk] for doing, got %v", got)
	}

	if _, err := svc.SoftDelete(ctx, dog.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := messages(svc.VisibleTasks(model.FilterAll, "")); !reflect.DeepEqual(got, []string{"Buy milk"}) {
		t.Fatalf("expected [Buy milk] for all, got %v", got)
	}
}

func TestToggleDarkModeWritesOnlyPreference(t *testing.T) {
	p := &recordingPersister{}
	svc := NewService(model.NewState(), p)

	dark, err := svc.ToggleDarkMode(context.Background())
	if err != nil || !dark {
		t.Fatalf("expected dark mode on, got %v err=%v", dark, err)
	}
	if len(p.taskWrites) != 0 {
		t.Fatalf("expected no task list rewrite on theme toggle")
	}
	if !reflect.DeepEqual(p.darkWrites, []bool{true}) {
		t.Fatalf("unexpected dark mode writes: %v", p.darkWrites)
	}

	if err := svc.SetDarkMode(context.Background(), true); err != nil {
		t.Fatalf("set dark mode failed: %v", err)
	}
	if len(p.darkWrites) != 1 {
		t.Fatalf("expected unchanged preference not to be rewritten")
	}
}

func TestPersistFailureKeepsInMemoryChange(t *testing.T) {
	boom := errors.New("disk full")
	p := &recordingPersister{err: boom}
	svc := NewService(model.NewState(), p)

	task, err := svc.Create(context.Background(), "survives")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped persist error, got %v", err)
	}
	if _, ok := svc.Task(task.ID); !ok {
		t.Fatalf("expected task kept in memory after failed write")
	}
}

func TestNewServiceRepairsDuplicateIDs(t *testing.T) {
	state := model.AppState{Tasks: []model.Task{
		{ID: "dup", Message: "one", Status: model.StatusToDo},
		{ID: "dup", Message: "two", Status: model.StatusDoing},
		{ID: "", Message: "three", Status: model.StatusDone},
	}}
	svc := NewService(state, nil)

	if svc.RepairedIDs() != 2 {
		t.Fatalf("expected 2 repaired ids, got %d", svc.RepairedIDs())
	}
	seen := map[string]bool{}
	for _, task := range svc.Tasks() {
		if task.ID == "" || seen[task.ID] {
			t.Fatalf("expected unique non-empty ids, got %+v", svc.Tasks())
		}
		seen[task.ID] = true
	}
	if svc.Tasks()[0].ID != "dup" {
		t.Fatalf("expected first occurrence to keep its id")
	}
}

func TestIDsAreUniqueAcrossBurst(t *testing.T) {
	svc := NewService(model.NewState(), nil)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		task := mustCreate(t, svc, "task")
		if seen[task.ID] {
			t.Fatalf("duplicate id %q", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestStatsCountsDeletedAndVisible(t *testing.T) {
	svc := NewService(model.NewState(), nil)
	ctx := context.Background()
	a := mustCreate(t, svc, "a")
	b := mustCreate(t, svc, "b")
	mustCreate(t, svc, "c")
	if _, err := svc.SetStatus(ctx, a.ID, model.StatusDoing); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if _, err := svc.SoftDelete(ctx, b.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	st := svc.Stats(model.FilterDoing, "")
	if st.Total != 3 || st.Deleted != 1 || st.Visible != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.ByStatus[model.StatusToDo] != 1 || st.ByStatus[model.StatusDoing] != 1 || st.ByStatus[model.StatusDone] != 0 {
		t.Fatalf("unexpected per-status counts: %+v", st.ByStatus)
	}
}
