package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTaskEncodingKeepsFieldOrderAndLiterals(t *testing.T) {
	task := Task{ID: "1700000000000abc123xyz", Message: "ship it", Status: StatusDone, Deleted: true}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"id":"1700000000000abc123xyz","msg":"ship it","status":"document","isDeleted":true}`
	if string(data) != want {
		t.Fatalf("unexpected encoding\nwant=%s\ngot=%s", want, data)
	}

	var got Task
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(task, got) {
		t.Fatalf("round-trip mismatch\nwant=%+v\ngot=%+v", task, got)
	}
}

func TestStatusDecodingAcceptsCleanDoneSpelling(t *testing.T) {
	var got Task
	if err := json.Unmarshal([]byte(`{"id":"a","msg":"m","status":"done","isDeleted":false}`), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Status != StatusDone {
		t.Fatalf("expected %q, got %q", StatusDone, got.Status)
	}

	if err := json.Unmarshal([]byte(`{"id":"a","msg":"m","status":"later"}`), &got); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"todo":     StatusToDo,
		"toDo":     StatusToDo,
		"To-Do":    StatusToDo,
		" doing ":  StatusDoing,
		"DONE":     StatusDone,
		"document": StatusDone,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: want %q, got %q", in, want, got)
		}
	}

	if _, err := ParseStatus("blocked"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestStatusCycleCoversAllValues(t *testing.T) {
	s := StatusToDo
	seen := map[Status]bool{}
	for i := 0; i < len(Statuses); i++ {
		seen[s] = true
		if s.Prev().Next() != s {
			t.Fatalf("prev/next not inverse for %q", s)
		}
		s = s.Next()
	}
	if s != StatusToDo || len(seen) != len(Statuses) {
		t.Fatalf("expected cycle over %d statuses, saw %v", len(Statuses), seen)
	}
}

func TestFilterMatches(t *testing.T) {
	for _, s := range Statuses {
		if !FilterAll.Matches(s) {
			t.Fatalf("all should match %q", s)
		}
	}
	if !FilterDoing.Matches(StatusDoing) || FilterDoing.Matches(StatusToDo) {
		t.Fatalf("doing filter mismatch")
	}
	if !FilterDone.Matches(StatusDone) || FilterDone.Matches(StatusDoing) {
		t.Fatalf("done filter mismatch")
	}

	f, err := ParseFilter("")
	if err != nil || f != FilterAll {
		t.Fatalf("expected empty filter to mean all, got %q (%v)", f, err)
	}
	if FilterDone.Next() != FilterAll {
		t.Fatalf("expected filter cycle to wrap to all")
	}
}
