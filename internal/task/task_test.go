package task

import (
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestParsePriority(t *testing.T) {
	cases := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"low", Low, true},
		{"Low", Low, true},
		{"LOW", Low, true},
		{"medium", Medium, true},
		{"MeDiUm", Medium, true},
		{"high", High, true},
		{" High ", Medium, false},
		{"high\n", Medium, false},
		{"bogus", Medium, false},
		{"", Medium, false},
		{"urgent", Medium, false},
	}
	for _, tc := range cases {
		got, ok := ParsePriority(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParsePriority(%q) = (%v, %t), want (%v, %t)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	var c Collection
	descs := []string{"Buy milk", "", "Buy milk", "Call Bob"}
	for _, d := range descs {
		c.Add(d, Medium, "2030-01-01")
	}
	if len(c) != len(descs) {
		t.Fatalf("expected %d tasks, got %d", len(descs), len(c))
	}
	for i, task := range c {
		if task.ID != i+1 {
			t.Fatalf("task %d: expected id %d, got %d", i, i+1, task.ID)
		}
		if task.Description != descs[i] {
			t.Fatalf("task %d: expected description %q, got %q", i, descs[i], task.Description)
		}
		if task.Done {
			t.Fatalf("task %d: new task should be pending", i)
		}
		if _, err := ulid.Parse(task.UID); err != nil {
			t.Fatalf("task %d: uid %q is not a ULID: %v", i, task.UID, err)
		}
	}
}

func TestAddDefaultsDueDateToToday(t *testing.T) {
	withNow(t, time.Date(2026, 3, 9, 15, 0, 0, 0, time.Local))
	var c Collection
	got := c.Add("Buy milk", High, "")
	if got.DueDate != "2026-03-09" {
		t.Fatalf("expected due date 2026-03-09, got %q", got.DueDate)
	}
	if got.Priority != High {
		t.Fatalf("expected High, got %v", got.Priority)
	}
}

func TestAddSkipsIDStillInUse(t *testing.T) {
	c := Collection{
		{ID: 1, Description: "a"},
		{ID: 2, Description: "b"},
	}
	c.Remove(1)
	got := c.Add("c", Low, "2030-01-01")
	if got.ID != 3 {
		t.Fatalf("expected id 3 (2 still in use), got %d", got.ID)
	}

	c = Collection{{ID: 1, Description: "a"}, {ID: 2, Description: "b"}}
	c.Remove(2)
	got = c.Add("c", Low, "2030-01-01")
	if got.ID != 2 {
		t.Fatalf("expected id 2 (len+1 is free), got %d", got.ID)
	}
}

func TestMarkDoneIsIsolatedAndIdempotent(t *testing.T) {
	c := Collection{
		{ID: 1, Description: "a", Priority: Low, DueDate: "2030-01-01"},
		{ID: 2, Description: "b", Priority: High, DueDate: "2030-01-02"},
	}
	want := c[0]
	if !c.MarkDone(2) {
		t.Fatal("expected task 2 to be found")
	}
	if !c.MarkDone(2) {
		t.Fatal("expected repeated done to find task 2")
	}
	if c[0] != want {
		t.Fatalf("task 1 changed: %+v", c[0])
	}
	if !c[1].Done || c[1].Description != "b" || c[1].Priority != High || c[1].DueDate != "2030-01-02" {
		t.Fatalf("unexpected task 2 after done: %+v", c[1])
	}
	if c.MarkDone(9) {
		t.Fatal("expected missing id to be reported")
	}
}

func TestRemoveKeepsOrder(t *testing.T) {
	c := Collection{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	if !c.Remove(2) {
		t.Fatal("expected task 2 to be removed")
	}
	want := []int{1, 3, 4}
	if len(c) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(c))
	}
	for i, id := range want {
		if c[i].ID != id {
			t.Fatalf("index %d: expected id %d, got %d", i, id, c[i].ID)
		}
	}
	if c.Remove(7) {
		t.Fatal("expected missing id to be reported")
	}
	if len(c) != 3 {
		t.Fatalf("collection changed on missing id: %+v", c)
	}
}

func TestFilter(t *testing.T) {
	c := Collection{
		{ID: 1, Done: true},
		{ID: 2},
		{ID: 3, Done: true},
	}
	ids := func(in Collection) []int {
		var out []int
		for _, tk := range in {
			out = append(out, tk.ID)
		}
		return out
	}
	cases := map[string][]int{
		"done":    {1, 3},
		"pending": {2},
		"":        {1, 2, 3},
		"all":     {1, 2, 3},
		"DONE":    {1, 2, 3},
	}
	for status, want := range cases {
		got := ids(c.Filter(status))
		if len(got) != len(want) {
			t.Errorf("Filter(%q) = %v, want %v", status, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Filter(%q) = %v, want %v", status, got, want)
				break
			}
		}
	}
}

func TestValidDate(t *testing.T) {
	for _, s := range []string{"2030-01-01", "2024-02-29"} {
		if !ValidDate(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "tomorrow", "2030-1-1", "2023-02-29", "01/01/2030"} {
		if ValidDate(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestIsUIDPrefix(t *testing.T) {
	valid := []string{"01J9", "01j9zq6m", "ZZZZ", "01J9ZQ6M1Y8W4T3S2R1Q0P9N8M"}
	for _, s := range valid {
		if !IsUIDPrefix(s) {
			t.Errorf("expected %q to be a uid prefix", s)
		}
	}
	invalid := []string{"", "abc", "1234", "01J9-", "01IL", "01J9ZQ6M1Y8W4T3S2R1Q0P9N8MX"}
	for _, s := range invalid {
		if IsUIDPrefix(s) {
			t.Errorf("expected %q not to be a uid prefix", s)
		}
	}
}

func TestMatchUID(t *testing.T) {
	c := Collection{
		{ID: 1, UID: "01HAAAAAAAAAAAAAAAAAAAAAAA"},
		{ID: 2, UID: "01HAAAAAAAAAAAAAAAAAAAAAAB"},
		{ID: 3, UID: "01HCCCCCCCCCCCCCCCCCCCCCCC"},
		{ID: 4},
	}
	if i, err := c.MatchUID("01hc"); err != nil || i != 2 {
		t.Fatalf("MatchUID(01hc) = (%d, %v), want (2, nil)", i, err)
	}
	if i, err := c.MatchUID("01HAAAAAAAAAAAAAAAAAAAAAAB"); err != nil || i != 1 {
		t.Fatalf("full uid = (%d, %v), want (1, nil)", i, err)
	}
	if _, err := c.MatchUID("01HA"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := c.MatchUID("01HZ"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUIDsAreUnique(t *testing.T) {
	var c Collection
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		uid := c.Add("x", Low, "2030-01-01").UID
		if seen[uid] {
			t.Fatalf("duplicate uid %s", uid)
		}
		seen[uid] = true
	}
}
