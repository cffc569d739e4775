package store

// WeeklyScores returns the score history in append order.
func (s *Store) WeeklyScores() []WeeklyScore {
	var scores []WeeklyScore
	if !s.load(CollectionWeeklyScores, &scores) || scores == nil {
		return []WeeklyScore{}
	}
	return scores
}

func (s *Store) SaveWeeklyScores(scores []WeeklyScore) error {
	if scores == nil {
		scores = []WeeklyScore{}
	}
	return s.save(CollectionWeeklyScores, scores)
}

// AppendWeeklyScore reads the full history, pushes score and writes the
// history back. It is not a single atomic append.
func (s *Store) AppendWeeklyScore(score WeeklyScore) error {
	scores := s.WeeklyScores()
	scores = append(scores, score)
	return s.SaveWeeklyScores(scores)
}
