package core

import (
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestHistoryID_Deterministic(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	id1 := HistoryID(42, "design", "feedback", "mentoring", at)
	id2 := HistoryID(42, "design", "feedback", "mentoring", at)
	if id1 != id2 {
		t.Errorf("HistoryID() produced different IDs for same input: %d vs %d", id1, id2)
	}

	other := HistoryID(43, "design", "feedback", "mentoring", at)
	if id1 == other {
		t.Errorf("HistoryID() produced same ID for different users")
	}

	later := HistoryID(42, "design", "feedback", "mentoring", at.Add(time.Microsecond))
	if id1 == later {
		t.Errorf("HistoryID() produced same ID for different archive times")
	}
}

func TestProfile_Answers(t *testing.T) {
	p := Profile{
		Field:    "product design",
		Seeking:  "early users for feedback",
		Offering: "mentoring on prototyping",
	}

	got := p.Answers()
	want := [3]string{"product design", "early users for feedback", "mentoring on prototyping"}
	if got != want {
		t.Errorf("Profile.Answers() = %v, want %v", got, want)
	}
}

func TestProfile_DisplayName(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    string
	}{
		{
			name:    "first name preferred",
			profile: Profile{Id: 7, FirstName: "Anya", Username: "anya_k"},
			want:    "Anya",
		},
		{
			name:    "username when first name is empty",
			profile: Profile{Id: 7, Username: "anya_k"},
			want:    "anya_k",
		},
		{
			name:    "fallback to member id",
			profile: Profile{Id: 7},
			want:    "Member 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.profile.DisplayName()
			if got != tt.want {
				t.Errorf("Profile.DisplayName() = %v, want %v", got, tt.want)
			}
		})
	}
}
