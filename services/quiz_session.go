package services

import (
	"codequest-platform/models"
)

// Boss fight tuning. Lives are a tension mechanic only — passing is
// decided by the score threshold alone.
const (
	QuizLives           = 3
	BossXPReward        = 500
	BossCoinReward      = 50
	PerfectRunCoinBonus = 50
)

// PassingScore is the minimum correct answers out of n: ceil(n × 0.7).
func PassingScore(n int) int {
	return (n*7 + 9) / 10
}

// QuizSession is the in-progress state of a boss fight. It is an
// immutable snapshot: each transition returns the successor state and
// leaves the receiver untouched, which keeps replays and tests trivial.
// Nothing durable happens until a finished, passing session is handed
// to QuizService.CompleteBossFight.
type QuizSession struct {
	Questions []models.QuizQuestion `json:"questions"`
	Index     int                   `json:"index"`
	Score     int                   `json:"score"`
	Lives     int                   `json:"lives"`
	Answered  bool                  `json:"answered"`
	Finished  bool                  `json:"finished"`
}

// NewQuizSession starts a session over the module's question set.
// An empty set is a content configuration error, never a free pass.
func NewQuizSession(questions []models.QuizQuestion) (QuizSession, error) {
	if len(questions) == 0 {
		return QuizSession{}, &ConfigurationError{Reason: "boss fight has no questions"}
	}
	return QuizSession{Questions: questions, Lives: QuizLives}, nil
}

// Answer records the choice for the current question. Valid only once
// per question; a correct choice raises the score, a wrong one costs a
// life.
func (s QuizSession) Answer(choice int) (QuizSession, error) {
	if s.Finished || s.Answered {
		return s, ErrInvalidState
	}
	current := s.Questions[s.Index]
	if choice < 0 || choice >= len(current.Options) {
		return s, ErrInvalidState
	}

	s.Answered = true
	if choice == current.CorrectAnswer {
		s.Score++
	} else {
		s.Lives--
	}
	return s, nil
}

// Advance moves to the next question, or finishes the session when the
// last question was answered or all lives are gone. Out of lives the
// remaining questions are cut off — but Passed still goes by score, so
// a 0-lives run can pass when enough earlier answers were correct.
func (s QuizSession) Advance() (QuizSession, error) {
	if s.Finished || !s.Answered {
		return s, ErrInvalidState
	}
	if s.Lives <= 0 || s.Index >= len(s.Questions)-1 {
		s.Finished = true
		return s, nil
	}
	s.Index++
	s.Answered = false
	return s, nil
}

// Retry restarts a failed session with the same question set. Passing
// sessions cannot be retried.
func (s QuizSession) Retry() (QuizSession, error) {
	if !s.Finished || s.Passed() {
		return s, ErrInvalidState
	}
	return NewQuizSession(s.Questions)
}

// Passed reports the score-threshold outcome of a finished session.
func (s QuizSession) Passed() bool {
	return s.Finished && s.Score >= PassingScore(len(s.Questions))
}

// Perfect is a full score with no lives lost.
func (s QuizSession) Perfect() bool {
	return s.Score == len(s.Questions) && s.Lives == QuizLives
}

// CoinReward is the coin grant for a finished, passing session.
func (s QuizSession) CoinReward() int64 {
	coins := int64(BossCoinReward)
	if s.Perfect() {
		coins += PerfectRunCoinBonus
	}
	return coins
}

// ReplaySession drives a full session from an ordered answer list, as
// submitted by the client when the fight ends. The session may finish
// before consuming every answer (out of lives); trailing answers are
// ignored. Running out of answers before the session finishes is an
// invalid submission.
func ReplaySession(questions []models.QuizQuestion, answers []int) (QuizSession, error) {
	session, err := NewQuizSession(questions)
	if err != nil {
		return session, err
	}
	for _, choice := range answers {
		if session.Finished {
			break
		}
		if session, err = session.Answer(choice); err != nil {
			return session, err
		}
		if session, err = session.Advance(); err != nil {
			return session, err
		}
	}
	if !session.Finished {
		return session, ErrInvalidState
	}
	return session, nil
}
