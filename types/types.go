package types

import "encoding/json"

// StatusCode is the cb column stamped on proposals and votes. It records how
// far a record has moved through the asynchronous valuation pipeline.
// Negative values are not authoritative; Ineligible and Final are terminal.
type StatusCode int

const (
	StatusSyncError      StatusCode = -4
	StatusPendingSync    StatusCode = -3
	StatusPendingCompute StatusCode = -2
	StatusPendingFinal   StatusCode = -1
	StatusIneligible     StatusCode = 0
	StatusFinal          StatusCode = 1
)

func (s StatusCode) Terminal() bool {
	return s == StatusIneligible || s == StatusFinal
}

const (
	TypeProposal       = "proposal"
	TypeVote           = "vote"
	TypeVoteArray      = "vote-array"
	TypeVoteString     = "vote-string"
	TypeSettings       = "settings"
	TypeDeleteProposal = "delete-proposal"
	TypeUpdateProposal = "update-proposal"
	TypeFlagProposal   = "flag-proposal"
	TypeDeleteSpace    = "delete-space"
	TypeFollow         = "follow"
	TypeUnfollow       = "unfollow"
	TypeAlias          = "alias"
	TypeSubscribe      = "subscribe"
	TypeUnsubscribe    = "unsubscribe"
	TypeProfile        = "profile"
	TypeStatement      = "statement"
)

const (
	VpStatePending = "pending"
	VpStateFinal   = "final"
)

const (
	VotingTypeSingleChoice = "single-choice"
	VotingTypeBasic        = "basic"
	VotingTypeApproval     = "approval"
	VotingTypeRankedChoice = "ranked-choice"
	VotingTypeWeighted     = "weighted"
	VotingTypeQuadratic    = "quadratic"
)

type Strategy struct {
	Name    string          `json:"name"`
	Network string          `json:"network,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Validation struct {
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params,omitempty"`
}

type VotingRules struct {
	Delay       uint64  `json:"delay,omitempty"`
	Period      uint64  `json:"period,omitempty"`
	Type        string  `json:"type,omitempty"`
	Quorum      float64 `json:"quorum,omitempty"`
	Privacy     string  `json:"privacy,omitempty"`
	Aliased     bool    `json:"aliased,omitempty"`
	HideAbstain bool    `json:"hideAbstain,omitempty"`
}

type SpaceSettings struct {
	Name       string      `json:"name"`
	About      string      `json:"about,omitempty"`
	Network    string      `json:"network"`
	Symbol     string      `json:"symbol,omitempty"`
	Strategies []Strategy  `json:"strategies"`
	Validation Validation  `json:"validation,omitempty"`
	Voting     VotingRules `json:"voting,omitempty"`
	Admins     []string    `json:"admins,omitempty"`
	Moderators []string    `json:"moderators,omitempty"`
	Members    []string    `json:"members,omitempty"`
	Parent     string      `json:"parent,omitempty"`
	Children   []string    `json:"children,omitempty"`
}
