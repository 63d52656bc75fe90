package services

import (
	"errors"
	"testing"

	"codequest-platform/models"
)

// mkQuestions builds four-option questions where every correct answer
// is option 0.
func mkQuestions(n int) []models.QuizQuestion {
	questions := make([]models.QuizQuestion, n)
	for i := range questions {
		questions[i] = models.QuizQuestion{
			Question:      "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
		}
	}
	return questions
}

func TestPassingScore(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{5, 4},
		{10, 7},
		{20, 14},
	}
	for _, tc := range cases {
		if got := PassingScore(tc.n); got != tc.want {
			t.Errorf("PassingScore(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestNewQuizSessionEmpty(t *testing.T) {
	_, err := NewQuizSession(nil)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestAnswerTransitions(t *testing.T) {
	session, err := NewQuizSession(mkQuestions(3))
	if err != nil {
		t.Fatal(err)
	}
	if session.Lives != QuizLives {
		t.Fatalf("fresh session lives = %d, want %d", session.Lives, QuizLives)
	}

	// correct answer raises score, keeps lives
	after, err := session.Answer(0)
	if err != nil {
		t.Fatal(err)
	}
	if after.Score != 1 || after.Lives != QuizLives {
		t.Errorf("after correct: score=%d lives=%d", after.Score, after.Lives)
	}
	// receiver untouched
	if session.Score != 0 || session.Answered {
		t.Error("Answer mutated the receiver")
	}

	// answering twice is rejected
	if _, err := after.Answer(0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double answer: got %v, want ErrInvalidState", err)
	}

	// out-of-range choice is rejected without state change
	if _, err := session.Answer(4); !errors.Is(err, ErrInvalidState) {
		t.Errorf("out-of-range choice: got %v, want ErrInvalidState", err)
	}
	if _, err := session.Answer(-1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("negative choice: got %v, want ErrInvalidState", err)
	}

	// wrong answer costs a life
	wrong, err := session.Answer(1)
	if err != nil {
		t.Fatal(err)
	}
	if wrong.Score != 0 || wrong.Lives != QuizLives-1 {
		t.Errorf("after wrong: score=%d lives=%d", wrong.Score, wrong.Lives)
	}
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	session, _ := NewQuizSession(mkQuestions(2))
	if _, err := session.Advance(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("advance before answering: got %v, want ErrInvalidState", err)
	}
}

func TestAdvanceFinishesOnLastQuestion(t *testing.T) {
	session, _ := NewQuizSession(mkQuestions(2))
	session, _ = session.Answer(0)
	session, _ = session.Advance()
	if session.Finished {
		t.Fatal("finished after first of two questions")
	}
	session, _ = session.Answer(0)
	session, _ = session.Advance()
	if !session.Finished {
		t.Fatal("not finished after last question")
	}
	if _, err := session.Answer(0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("answer after finish: got %v, want ErrInvalidState", err)
	}
}

// Running out of lives cuts the remaining questions, but the pass
// decision still goes by score alone.
func TestZeroLivesForceFinish(t *testing.T) {
	session, _ := NewQuizSession(mkQuestions(10))
	for i := 0; i < 3; i++ {
		var err error
		if session, err = session.Answer(1); err != nil {
			t.Fatal(err)
		}
		if session, err = session.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	if !session.Finished {
		t.Fatal("session should finish when lives hit zero")
	}
	if session.Passed() {
		t.Error("0/10 should not pass")
	}
}

func TestScoreOnlyPassWithZeroLives(t *testing.T) {
	// 7 correct then 3 wrong out of 10: lives gone, score meets the bar.
	session, _ := NewQuizSession(mkQuestions(10))
	answers := []int{0, 0, 0, 0, 0, 0, 0, 1, 1, 1}
	for _, choice := range answers {
		if session.Finished {
			break
		}
		var err error
		if session, err = session.Answer(choice); err != nil {
			t.Fatal(err)
		}
		if session, err = session.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	if !session.Finished {
		t.Fatal("session not finished")
	}
	if session.Lives != 0 {
		t.Errorf("lives = %d, want 0", session.Lives)
	}
	if !session.Passed() {
		t.Error("score 7/10 with zero lives should still pass")
	}
	if session.Perfect() {
		t.Error("lost lives can never be a perfect run")
	}
}

func TestRetry(t *testing.T) {
	session, _ := NewQuizSession(mkQuestions(3))
	for i := 0; i < 3 && !session.Finished; i++ {
		session, _ = session.Answer(1)
		session, _ = session.Advance()
	}
	if !session.Finished || session.Passed() {
		t.Fatalf("expected a finished failing session, got finished=%t passed=%t", session.Finished, session.Passed())
	}

	fresh, err := session.Retry()
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Score != 0 || fresh.Lives != QuizLives || fresh.Index != 0 || fresh.Finished {
		t.Errorf("retry did not reset the session: %+v", fresh)
	}

	// a passing session cannot be retried
	passed, _ := NewQuizSession(mkQuestions(1))
	passed, _ = passed.Answer(0)
	passed, _ = passed.Advance()
	if !passed.Passed() {
		t.Fatal("1/1 should pass")
	}
	if _, err := passed.Retry(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("retry of passing session: got %v, want ErrInvalidState", err)
	}

	// an unfinished session cannot be retried
	running, _ := NewQuizSession(mkQuestions(2))
	if _, err := running.Retry(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("retry of running session: got %v, want ErrInvalidState", err)
	}
}

func TestCoinReward(t *testing.T) {
	perfect, _ := NewQuizSession(mkQuestions(2))
	perfect, _ = perfect.Answer(0)
	perfect, _ = perfect.Advance()
	perfect, _ = perfect.Answer(0)
	perfect, _ = perfect.Advance()
	if !perfect.Perfect() {
		t.Fatal("expected perfect run")
	}
	if got := perfect.CoinReward(); got != BossCoinReward+PerfectRunCoinBonus {
		t.Errorf("perfect CoinReward = %d, want %d", got, BossCoinReward+PerfectRunCoinBonus)
	}

	// full score after losing a life is not perfect
	flawed, _ := NewQuizSession(mkQuestions(1))
	flawed.Lives-- // simulate a lost life from a retried question set
	flawed, _ = flawed.Answer(0)
	flawed, _ = flawed.Advance()
	if flawed.Perfect() {
		t.Error("full score with lost lives must not be perfect")
	}
	if got := flawed.CoinReward(); got != BossCoinReward {
		t.Errorf("CoinReward = %d, want %d", got, BossCoinReward)
	}
}

func TestReplaySession(t *testing.T) {
	questions := mkQuestions(3)

	t.Run("all correct", func(t *testing.T) {
		session, err := ReplaySession(questions, []int{0, 0, 0})
		if err != nil {
			t.Fatal(err)
		}
		if !session.Passed() || !session.Perfect() {
			t.Errorf("passed=%t perfect=%t, want both", session.Passed(), session.Perfect())
		}
	})

	t.Run("trailing answers after force finish are ignored", func(t *testing.T) {
		session, err := ReplaySession(questions, []int{1, 1, 1, 0, 0})
		if err != nil {
			t.Fatal(err)
		}
		if !session.Finished || session.Score != 0 {
			t.Errorf("finished=%t score=%d", session.Finished, session.Score)
		}
	})

	t.Run("too few answers", func(t *testing.T) {
		if _, err := ReplaySession(questions, []int{0}); !errors.Is(err, ErrInvalidState) {
			t.Errorf("got %v, want ErrInvalidState", err)
		}
	})

	t.Run("invalid choice", func(t *testing.T) {
		if _, err := ReplaySession(questions, []int{9, 0, 0}); !errors.Is(err, ErrInvalidState) {
			t.Errorf("got %v, want ErrInvalidState", err)
		}
	})

	t.Run("no questions", func(t *testing.T) {
		var cfgErr *ConfigurationError
		if _, err := ReplaySession(nil, nil); !errors.As(err, &cfgErr) {
			t.Errorf("got %v, want ConfigurationError", err)
		}
	})
}
