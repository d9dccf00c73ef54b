package signal

import "testing"

func TestConnectEmit(t *testing.T) {
	var s Signal[int]
	var got []int
	s.Connect(func(v int) { got = append(got, v) })
	s.Connect(func(v int) { got = append(got, v*10) })

	s.Emit(3)

	if len(got) != 2 || got[0] != 3 || got[1] != 30 {
		t.Errorf("got = %v, want [3 30]", got)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestDisconnect(t *testing.T) {
	var s Signal[string]
	calls := 0
	fn := func(string) { calls++ }
	a := s.Connect(fn)
	b := s.Connect(fn)

	if a == b {
		t.Fatal("tokens should be unique for the same callback")
	}
	if !s.Disconnect(a) {
		t.Error("Disconnect(a) = false, want true")
	}
	if s.Disconnect(a) {
		t.Error("second Disconnect(a) = true, want false")
	}

	s.Emit("x")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestDisconnectDuringEmit(t *testing.T) {
	var s Signal[int]
	var second Token
	calls := 0
	s.Connect(func(int) {
		calls++
		s.Disconnect(second)
	})
	second = s.Connect(func(int) { calls += 100 })

	s.Emit(1)

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (disconnected listener must not run)", calls)
	}
}

func TestConnectDuringEmit(t *testing.T) {
	var s Signal[int]
	late := 0
	s.Connect(func(int) {
		s.Connect(func(int) { late++ })
	})

	s.Emit(1)
	if late != 0 {
		t.Errorf("late = %d, want 0 (new listeners wait for the next emission)", late)
	}

	s.Emit(2)
	if late != 1 {
		t.Errorf("late = %d, want 1", late)
	}
}

func TestReentrantEmit(t *testing.T) {
	var s Signal[int]
	var seen []int
	s.Connect(func(v int) {
		seen = append(seen, v)
		if v > 0 {
			s.Emit(v - 1)
		}
	})

	s.Emit(2)

	want := []int{2, 1, 0}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestReset(t *testing.T) {
	var s Signal[Change[int]]
	calls := 0
	s.Connect(func(Change[int]) { calls++ })
	s.Reset()
	s.Emit(Change[int]{Current: 1})

	if calls != 0 {
		t.Errorf("calls = %d, want 0 after Reset", calls)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
