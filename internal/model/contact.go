package model

// ClientTier is the user-assigned importance of a contact.
type ClientTier string

const (
	TierVIP     ClientTier = "vip"
	TierHigh    ClientTier = "high"
	TierMedium  ClientTier = "medium"
	TierLow     ClientTier = "low"
	TierUnknown ClientTier = "unknown"
)

func ParseClientTier(s string) ClientTier {
	switch v := ClientTier(normalizeLabel(s)); v {
	case TierVIP, TierHigh, TierMedium, TierLow:
		return v
	default:
		return TierUnknown
	}
}

type ClientInfo struct {
	Name string     `json:"name"`
	Tier ClientTier `json:"tier"`
}

// ClientLookup maps contact id to client info. Built fresh for every ranking.
type ClientLookup map[int]ClientInfo

// Contact is an active, client-flagged contact row.
type Contact struct {
	ID   int
	Name string
	Tier ClientTier
}
