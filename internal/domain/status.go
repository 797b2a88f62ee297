package domain

// AuctionStatus is the lifecycle status of an auction.
type AuctionStatus string

const (
	AuctionStatusDraft     AuctionStatus = "draft"
	AuctionStatusScheduled AuctionStatus = "scheduled"
	AuctionStatusLive      AuctionStatus = "live"
	AuctionStatusEnded     AuctionStatus = "ended"
)

func (s AuctionStatus) String() string { return string(s) }

func (s AuctionStatus) IsValid() bool {
	switch s {
	case AuctionStatusDraft, AuctionStatusScheduled, AuctionStatusLive, AuctionStatusEnded:
		return true
	}
	return false
}

// LotStatus is the lifecycle status of a lot.
// draft -> scheduled -> live -> sold | unsold. The admin resend branch is
// handled outside this service.
type LotStatus string

const (
	LotStatusDraft     LotStatus = "draft"
	LotStatusScheduled LotStatus = "scheduled"
	LotStatusLive      LotStatus = "live"
	LotStatusSold      LotStatus = "sold"
	LotStatusUnsold    LotStatus = "unsold"
	LotStatusResend    LotStatus = "resend"
)

func (s LotStatus) String() string { return string(s) }

func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusDraft, LotStatusScheduled, LotStatusLive, LotStatusSold, LotStatusUnsold, LotStatusResend:
		return true
	}
	return false
}

// IsTerminal reports whether the lot has been finalized by the closer.
func (s LotStatus) IsTerminal() bool {
	return s == LotStatusSold || s == LotStatusUnsold
}

// Role is the caller role resolved by the identity collaborator.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string { return string(r) }

// CanBid reports whether the role is eligible to place bids.
func (r Role) CanBid() bool { return r == RoleBuyer }
