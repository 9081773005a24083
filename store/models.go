package store

// sqlite models

type Space struct {
	ID            string `gorm:"primary_key" json:"id"`
	Network       string `json:"network"`
	Controller    string `json:"controller"`
	Settings      string `json:"settings"`
	Deleted       bool   `json:"deleted"`
	Flagged       bool   `json:"flagged"`
	Verified      bool   `json:"verified"`
	Hibernated    bool   `json:"hibernated"`
	Turbo         bool   `json:"turbo"`
	ProposalCount uint64 `json:"proposal_count"`
	VoteCount     uint64 `json:"vote_count"`
	FollowerCount uint64 `json:"follower_count"`
	Created       uint64 `json:"created"`
	Updated       uint64 `json:"updated"`
}

type Proposal struct {
	ID                string  `gorm:"primary_key" json:"id"`
	IPFS              string  `gorm:"column:ipfs" json:"ipfs"`
	Space             string  `gorm:"index" json:"space"`
	Author            string  `gorm:"index" json:"author"`
	Network           string  `json:"network"`
	Type              string  `json:"type"`
	Title             string  `json:"title"`
	Body              string  `json:"body"`
	Discussion        string  `json:"discussion"`
	Choices           string  `json:"choices"`
	Strategies        string  `json:"strategies"`
	Validation        string  `json:"validation"`
	Snapshot          uint64  `json:"snapshot"`
	Start             uint64  `json:"start"`
	End               uint64  `json:"end"`
	Quorum            float64 `json:"quorum"`
	Privacy           string  `json:"privacy"`
	App               string  `json:"app"`
	Created           uint64  `json:"created"`
	Updated           uint64  `json:"updated"`
	Flagged           bool    `json:"flagged"`
	VoteCount         uint64  `json:"vote_count"`
	ScoresState       string  `json:"scores_state"`
	ScoresTotal       float64 `json:"scores_total"`
	ScoresByStrategy  string  `json:"scores_by_strategy"`
	ScoresTotalValue  float64 `json:"scores_total_value"`
	VpValueByStrategy string  `json:"vp_value_by_strategy"`
	Cb                int     `gorm:"index" json:"cb"`
}

type Vote struct {
	ID           string  `gorm:"primary_key" json:"id"`
	IPFS         string  `gorm:"column:ipfs" json:"ipfs"`
	Voter        string  `gorm:"index" json:"voter"`
	Space        string  `gorm:"index" json:"space"`
	Proposal     string  `gorm:"index" json:"proposal"`
	Choice       string  `json:"choice"`
	Reason       string  `json:"reason"`
	App          string  `json:"app"`
	Vp           float64 `json:"vp"`
	VpByStrategy string  `json:"vp_by_strategy"`
	VpState      string  `json:"vp_state"`
	VpValue      float64 `json:"vp_value"`
	Created      uint64  `json:"created"`
	Cb           int     `gorm:"index" json:"cb"`
}

type Alias struct {
	ID      uint64 `gorm:"primary_key;auto_increment" json:"id"`
	Address string `gorm:"index" json:"address"`
	Alias   string `gorm:"index" json:"alias"`
	Created uint64 `json:"created"`
}

type Follow struct {
	ID       string `gorm:"primary_key" json:"id"`
	Follower string `gorm:"index" json:"follower"`
	Space    string `gorm:"index" json:"space"`
	Network  string `json:"network"`
	Created  uint64 `json:"created"`
}

type Subscription struct {
	ID      string `gorm:"primary_key" json:"id"`
	Address string `gorm:"index" json:"address"`
	Space   string `gorm:"index" json:"space"`
	Created uint64 `json:"created"`
}

type User struct {
	ID      string `gorm:"primary_key" json:"id"`
	IPFS    string `gorm:"column:ipfs" json:"ipfs"`
	Profile string `json:"profile"`
	Created uint64 `json:"created"`
	Updated uint64 `json:"updated"`
}

type Statement struct {
	ID        uint64 `gorm:"primary_key;auto_increment" json:"id"`
	Delegate  string `gorm:"index" json:"delegate"`
	Space     string `gorm:"index" json:"space"`
	About     string `json:"about"`
	Statement string `json:"statement"`
	IPFS      string `gorm:"column:ipfs" json:"ipfs"`
	Created   uint64 `json:"created"`
	Updated   uint64 `json:"updated"`
}

// Message is the archive row written for every accepted envelope.
type Message struct {
	ID      string `gorm:"primary_key" json:"id"`
	IPFS    string `gorm:"column:ipfs" json:"ipfs"`
	Address string `gorm:"index" json:"address"`
	Space   string `gorm:"index" json:"space"`
	Type    string `json:"type"`
	Sig     string `json:"sig"`
	Receipt string `json:"receipt"`
	Created uint64 `json:"created"`
}

// Leaderboard keeps per-user per-space activity counters, maintained with
// increment-on-conflict updates.
type Leaderboard struct {
	ID            uint64 `gorm:"primary_key;auto_increment" json:"id"`
	Space         string `gorm:"unique_index:idx_space_user" json:"space"`
	User          string `gorm:"unique_index:idx_space_user" json:"user"`
	ProposalCount uint64 `json:"proposal_count"`
	VoteCount     uint64 `json:"vote_count"`
	LastVote      uint64 `json:"last_vote"`
}
