package game

import "testing"

func TestKeyboardPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		records []Status
		want    Status
	}{
		{name: "unknown", records: nil, want: StatusEmpty},
		{name: "absent", records: []Status{StatusAbsent}, want: StatusAbsent},
		{name: "absent_then_present", records: []Status{StatusAbsent, StatusPresent}, want: StatusPresent},
		{name: "present_then_correct", records: []Status{StatusPresent, StatusCorrect}, want: StatusCorrect},
		{name: "correct_never_downgrades", records: []Status{StatusCorrect, StatusPresent, StatusAbsent}, want: StatusCorrect},
		{name: "present_not_downgraded_by_absent", records: []Status{StatusPresent, StatusAbsent}, want: StatusPresent},
		{name: "active_ignored", records: []Status{StatusActive}, want: StatusEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewKeyboard()
			for _, s := range tt.records {
				k.Record('q', s)
			}
			if got := k.StatusOf('q'); got != tt.want {
				t.Fatalf("StatusOf('q') = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyboardIgnoresNonLetters(t *testing.T) {
	k := NewKeyboard()
	k.Record('!', StatusCorrect)
	k.Record('A', StatusCorrect) // overlay is lowercase only
	if len(k.Known()) != 0 {
		t.Fatalf("Known = %v, want empty", k.Known())
	}
	if got := k.StatusOf('#'); got != StatusEmpty {
		t.Fatalf("StatusOf('#') = %v, want empty", got)
	}
}

func TestKeyboardKnown(t *testing.T) {
	k := NewKeyboard()
	k.Record('c', StatusCorrect)
	k.Record('r', StatusPresent)
	k.Record('x', StatusAbsent)
	known := k.Known()
	if len(known) != 3 {
		t.Fatalf("Known has %d entries, want 3", len(known))
	}
	if known['c'] != StatusCorrect || known['r'] != StatusPresent || known['x'] != StatusAbsent {
		t.Fatalf("Known = %v", known)
	}
}
