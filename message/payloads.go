package message

import "encoding/json"

type ProposalPayload struct {
	From       string   `json:"from"`
	Space      string   `json:"space"`
	Timestamp  uint64   `json:"timestamp"`
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Discussion string   `json:"discussion"`
	Choices    []string `json:"choices"`
	Start      uint64   `json:"start"`
	End        uint64   `json:"end"`
	Snapshot   uint64   `json:"snapshot"`
	Plugins    string   `json:"plugins"`
	App        string   `json:"app"`
}

type VotePayload struct {
	From      string          `json:"from"`
	Space     string          `json:"space"`
	Timestamp uint64          `json:"timestamp"`
	Proposal  string          `json:"proposal"`
	Choice    json.RawMessage `json:"choice"`
	Reason    string          `json:"reason"`
	App       string          `json:"app"`
	Metadata  string          `json:"metadata"`
}

type SettingsPayload struct {
	From      string          `json:"from"`
	Space     string          `json:"space"`
	Timestamp uint64          `json:"timestamp"`
	Settings  json.RawMessage `json:"settings"`
}

type ProposalRefPayload struct {
	From      string `json:"from"`
	Space     string `json:"space"`
	Timestamp uint64 `json:"timestamp"`
	Proposal  string `json:"proposal"`
}

type UpdateProposalPayload struct {
	From       string   `json:"from"`
	Space      string   `json:"space"`
	Timestamp  uint64   `json:"timestamp"`
	Proposal   string   `json:"proposal"`
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Discussion string   `json:"discussion"`
	Choices    []string `json:"choices"`
}

type SpaceRefPayload struct {
	From      string `json:"from"`
	Space     string `json:"space"`
	Timestamp uint64 `json:"timestamp"`
}

type FollowPayload struct {
	From      string `json:"from"`
	Network   string `json:"network"`
	Space     string `json:"space"`
	Timestamp uint64 `json:"timestamp"`
}

type AliasPayload struct {
	From      string `json:"from"`
	Alias     string `json:"alias"`
	Timestamp uint64 `json:"timestamp"`
}

type ProfilePayload struct {
	From      string `json:"from"`
	Timestamp uint64 `json:"timestamp"`
	Profile   string `json:"profile"`
}

type StatementPayload struct {
	From      string `json:"from"`
	Space     string `json:"space"`
	Timestamp uint64 `json:"timestamp"`
	About     string `json:"about"`
	Statement string `json:"statement"`
}
