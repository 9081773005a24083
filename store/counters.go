package store

// Denormalized counters use atomic increment-on-conflict statements rather
// than read-modify-write, so concurrent writers cannot lose updates.

func (s *Store) IncrementSpaceProposalCount(space string, delta int64) error {
	return s.db.Exec(
		"UPDATE spaces SET proposal_count = proposal_count + ? WHERE id = ?",
		delta, space).Error
}

func (s *Store) IncrementSpaceVoteCount(space string) error {
	return s.db.Exec(
		"UPDATE spaces SET vote_count = vote_count + 1 WHERE id = ?",
		space).Error
}

func (s *Store) IncrementSpaceFollowerCount(space string, delta int64) error {
	return s.db.Exec(
		"UPDATE spaces SET follower_count = follower_count + ? WHERE id = ?",
		delta, space).Error
}

func (s *Store) IncrementLeaderboardProposalCount(space, user string) error {
	return s.db.Exec(
		`INSERT INTO leaderboards (space, user, proposal_count, vote_count, last_vote)
		 VALUES (?, ?, 1, 0, 0)
		 ON CONFLICT(space, user) DO UPDATE SET proposal_count = proposal_count + 1`,
		space, user).Error
}

func (s *Store) IncrementLeaderboardVoteCount(space, user string, at uint64) error {
	return s.db.Exec(
		`INSERT INTO leaderboards (space, user, proposal_count, vote_count, last_vote)
		 VALUES (?, ?, 0, 1, ?)
		 ON CONFLICT(space, user) DO UPDATE SET vote_count = vote_count + 1, last_vote = ?`,
		space, user, at, at).Error
}
