package transport

import (
	"testing"

	"quizbot/internal/app"
	"quizbot/internal/domain"
)

func TestMapText(t *testing.T) {
	cases := []struct {
		text string
		want domain.EventKind
	}{
		{"/start", domain.EventStart},
		{"Начать", domain.EventStart},
		{app.ButtonNextQuestion, domain.EventNextQuestion},
		{app.ButtonRepeatQuestion, domain.EventRepeatQuestion},
		{app.ButtonGiveUp, domain.EventGiveUp},
		{"какой-то ответ", domain.EventText},
		{"новый вопрос", domain.EventText}, // labels are matched exactly
	}
	for _, tc := range cases {
		if got := MapText(tc.text); got != tc.want {
			t.Errorf("MapText(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
