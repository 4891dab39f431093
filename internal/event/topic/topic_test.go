package topic

import (
	"testing"
)

func TestTopic_Segments(t *testing.T) {
	tests := []struct {
		topic    Topic
		expected []string
	}{
		{Topic("keyboard.keydown"), []string{"keyboard", "keydown"}},
		{Topic("keyup"), []string{"keyup"}},
		{Topic(""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String(), func(t *testing.T) {
			got := tt.topic.Segments()
			if len(got) != len(tt.expected) {
				t.Fatalf("Segments() = %v, want %v", got, tt.expected)
			}
			for i, seg := range got {
				if seg != tt.expected[i] {
					t.Errorf("Segments()[%d] = %v, want %v", i, seg, tt.expected[i])
				}
			}
		})
	}
}

func TestTopic_Base(t *testing.T) {
	if got := Topic("robot.keyboard.keyup").Base(); got != "keyup" {
		t.Errorf("Base() = %q, want keyup", got)
	}
	if got := Topic("keydown").Base(); got != "keydown" {
		t.Errorf("Base() = %q, want keydown", got)
	}
}

func TestTopic_IsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		valid bool
	}{
		{"keydown", true},
		{"keyboard.keydown", true},
		{"robot_1.key-events", true},
		{"keyboard.*", true},
		{"**", true},
		{"", false},
		{".keydown", false},
		{"keydown.", false},
		{"key..down", false},
		{"key down", false},
		{"key$", false},
	}

	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.valid {
			t.Errorf("Topic(%q).IsValid() = %v, want %v", tt.topic, got, tt.valid)
		}
	}
}

func TestTopic_IsWildcard(t *testing.T) {
	if Topic("keyboard.keydown").IsWildcard() {
		t.Error("plain topic reported as wildcard")
	}
	if !Topic("keyboard.*").IsWildcard() || !Topic("**").IsWildcard() {
		t.Error("wildcard topic not detected")
	}
}

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"keydown", "keydown", true},
		{"keydown", "keyup", false},
		{"keyboard.keydown", "keyboard.*", true},
		{"keyboard.keydown", "*", false},
		{"keyboard.keydown", "**", true},
		{"keydown", "**", true},
		{"keyup", "**.keyup", true},
		{"a.b.keyup", "**.keyup", true},
		{"a.b.keydown", "**.keyup", false},
		{"keyboard", "keyboard.**", true},
		{"keyboard.a.b", "keyboard.**", true},
		{"keyboard.keydown", "keyboard.keydown.extra", false},
		{"keyboard.keydown.extra", "keyboard.keydown", false},
		{"x.keyboard.keydown", "*.keyboard.*", true},
	}

	for _, tt := range tests {
		if got := tt.topic.Matches(tt.pattern); got != tt.want {
			t.Errorf("Topic(%q).Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join("keyboard", "keydown"); got != Topic("keyboard.keydown") {
		t.Errorf("Join() = %q", got)
	}
}
