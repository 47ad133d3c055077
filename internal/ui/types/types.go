package types

import "encoding/json"

// =============================================================================
// POLITICIANS
// =============================================================================

// Politician is the record returned by GET /politicians/{id} and in politician list pages.
// Optional fields are nil when the API returns null.
type Politician struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Party         *string   `json:"party"`
	Position      *string   `json:"position"`
	Country       string    `json:"country"`
	StateProvince *string   `json:"state_province"`
	Bio           *string   `json:"bio"`
	Website       *string   `json:"website"`
	PhotoURL      *string   `json:"photo_url"`
	CreatedAt     Timestamp `json:"created_at"`
	UpdatedAt     Timestamp `json:"updated_at"`
}

type PoliticianCreate struct {
	Name          string  `json:"name"`
	Party         *string `json:"party,omitempty"`
	Position      *string `json:"position,omitempty"`
	Country       string  `json:"country"`
	StateProvince *string `json:"state_province,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	Website       *string `json:"website,omitempty"`
	PhotoURL      *string `json:"photo_url,omitempty"`
}

// PoliticianUpdate is sent as-is with PUT. Omitted fields are left to the server to interpret,
// the client never merges with the previously fetched record.
type PoliticianUpdate struct {
	Name          *string `json:"name,omitempty"`
	Party         *string `json:"party,omitempty"`
	Position      *string `json:"position,omitempty"`
	Country       *string `json:"country,omitempty"`
	StateProvince *string `json:"state_province,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	Website       *string `json:"website,omitempty"`
	PhotoURL      *string `json:"photo_url,omitempty"`
}

// PoliticianDetail is returned by GET /politicians/{id}/details
type PoliticianDetail struct {
	Politician
	Votes          []VoteSummary         `json:"votes"`
	SponsoredBills []BillSummary         `json:"sponsored_bills"`
	Contributions  []ContributionSummary `json:"contributions"`
}

// VoteSummary is a vote embedded in a politician detail response
type VoteSummary struct {
	ID           string `json:"id"`
	BillID       string `json:"bill_id"`
	BillTitle    string `json:"bill_title"`
	VoteDate     Date   `json:"vote_date"`
	VotePosition string `json:"vote_position"`
	VoteResult   string `json:"vote_result"`
}

// BillSummary is a sponsored bill embedded in a politician detail response
type BillSummary struct {
	ID             string  `json:"id"`
	BillNumber     string  `json:"bill_number"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	IntroducedDate *Date   `json:"introduced_date"`
	Status         *string `json:"status"`
}

// ContributionSummary is a contribution embedded in a politician detail response
type ContributionSummary struct {
	ID               string  `json:"id"`
	ContributorName  string  `json:"contributor_name"`
	ContributorType  *string `json:"contributor_type"`
	Amount           float64 `json:"amount"`
	ContributionDate Date    `json:"contribution_date"`
}

// PoliticianContributions is returned by GET /politicians/{id}/contributions
type PoliticianContributions struct {
	Politician
	ContributionStats ContributionStats `json:"contribution_stats"`
}

type ContributionStats struct {
	TotalAmount         float64 `json:"total_amount"`
	TotalContributions  int     `json:"total_contributions"`
	AverageContribution float64 `json:"average_contribution"`
}

// =============================================================================
// BILLS
// =============================================================================

type Bill struct {
	ID             string    `json:"id"`
	BillNumber     string    `json:"bill_number"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	IntroducedDate *Date     `json:"introduced_date"`
	Status         *string   `json:"status"`
	FullTextURL    *string   `json:"full_text_url"`
	SponsorID      *string   `json:"sponsor_id"`
	CreatedAt      Timestamp `json:"created_at"`
	UpdatedAt      Timestamp `json:"updated_at"`
}

// BillWithSponsor is returned by GET /bills/{id}
type BillWithSponsor struct {
	Bill
	Sponsor *Politician `json:"sponsor"`
}

type BillCreate struct {
	BillNumber     string  `json:"bill_number"`
	Title          string  `json:"title"`
	Description    *string `json:"description,omitempty"`
	IntroducedDate *Date   `json:"introduced_date,omitempty"`
	Status         *string `json:"status,omitempty"`
	FullTextURL    *string `json:"full_text_url,omitempty"`
	SponsorID      *string `json:"sponsor_id,omitempty"`
}

type BillUpdate struct {
	BillNumber     *string `json:"bill_number,omitempty"`
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	IntroducedDate *Date   `json:"introduced_date,omitempty"`
	Status         *string `json:"status,omitempty"`
	FullTextURL    *string `json:"full_text_url,omitempty"`
	SponsorID      *string `json:"sponsor_id,omitempty"`
}

// =============================================================================
// VOTES
// =============================================================================

type Vote struct {
	ID           string    `json:"id"`
	PoliticianID string    `json:"politician_id"`
	BillID       string    `json:"bill_id"`
	BillTitle    string    `json:"bill_title"`
	VoteDate     Date      `json:"vote_date"`
	VotePosition string    `json:"vote_position"`
	VoteResult   string    `json:"vote_result"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
}

// VoteWithRelations is returned by GET /votes/{id}
type VoteWithRelations struct {
	Vote
	Politician *Politician `json:"politician"`
	Bill       *Bill       `json:"bill"`
}

type VoteCreate struct {
	PoliticianID string `json:"politician_id"`
	BillID       string `json:"bill_id"`
	BillTitle    string `json:"bill_title"`
	VoteDate     Date   `json:"vote_date"`
	VotePosition string `json:"vote_position"`
	VoteResult   string `json:"vote_result"`
}

type VoteUpdate struct {
	BillTitle    *string `json:"bill_title,omitempty"`
	VoteDate     *Date   `json:"vote_date,omitempty"`
	VotePosition *string `json:"vote_position,omitempty"`
	VoteResult   *string `json:"vote_result,omitempty"`
}

// VoteStatistics is one row of GET /votes/statistics/by-politician
type VoteStatistics struct {
	PoliticianID   string  `json:"politician_id"`
	PoliticianName string  `json:"politician_name"`
	Party          *string `json:"party"`
	TotalVotes     int     `json:"total_votes"`
	YeaVotes       int     `json:"yea_votes"`
	NayVotes       int     `json:"nay_votes"`
	BillsVoted     int     `json:"bills_voted"`
	YeaPercentage  float64 `json:"yea_percentage"`
}

// =============================================================================
// CONTRIBUTIONS
// =============================================================================

type Contribution struct {
	ID               string    `json:"id"`
	PoliticianID     string    `json:"politician_id"`
	ContributorName  string    `json:"contributor_name"`
	ContributorType  *string   `json:"contributor_type"`
	Amount           float64   `json:"amount"`
	ContributionDate Date      `json:"contribution_date"`
	CreatedAt        Timestamp `json:"created_at"`
	UpdatedAt        Timestamp `json:"updated_at"`
}

// ContributionWithPolitician is returned by GET /contributions/{id}
type ContributionWithPolitician struct {
	Contribution
	Politician *Politician `json:"politician"`
}

type ContributionCreate struct {
	PoliticianID     string  `json:"politician_id"`
	ContributorName  string  `json:"contributor_name"`
	ContributorType  *string `json:"contributor_type,omitempty"`
	Amount           float64 `json:"amount"`
	ContributionDate Date    `json:"contribution_date"`
}

type ContributionUpdate struct {
	ContributorName  *string  `json:"contributor_name,omitempty"`
	ContributorType  *string  `json:"contributor_type,omitempty"`
	Amount           *float64 `json:"amount,omitempty"`
	ContributionDate *Date    `json:"contribution_date,omitempty"`
}

// TopContributor is one row of GET /contributions/statistics/top-contributors
type TopContributor struct {
	ContributorName      string  `json:"contributor_name"`
	ContributorType      *string `json:"contributor_type"`
	TotalAmount          float64 `json:"total_amount"`
	ContributionCount    int     `json:"contribution_count"`
	PoliticiansSupported int     `json:"politicians_supported"`
	AverageContribution  float64 `json:"average_contribution"`
}

// =============================================================================
// HEALTH
// =============================================================================

type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// =============================================================================
// API RESPONSE TYPES
// =============================================================================

// ErrorResponse is the error body sent by the API.
// Detail is either a string or, for request validation failures, a list of ValidationIssue
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type ValidationIssue struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}
