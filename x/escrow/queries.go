package escrow

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
)

func loadAgreement(db paktum.ReadOnlyKVStore, agreementID []byte) (*Agreement, error) {
	var a Agreement
	if err := NewBucket().One(db, agreementID, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CurrentStatus returns the lifecycle phase of the agreement.
func CurrentStatus(db paktum.ReadOnlyKVStore, agreementID []byte) (Status, error) {
	a, err := loadAgreement(db, agreementID)
	if err != nil {
		return 0, err
	}
	return a.Status, nil
}

// CurrentDeadline returns the deadline the next timing check runs
// against.
func CurrentDeadline(db paktum.ReadOnlyKVStore, agreementID []byte) (paktum.UnixTime, error) {
	a, err := loadAgreement(db, agreementID)
	if err != nil {
		return 0, err
	}
	return a.Deadline, nil
}

// EscrowedAmount returns the amount held in custody. Zero before
// funding and after settlement the value reflects what was locked, not
// the custody balance.
func EscrowedAmount(db paktum.ReadOnlyKVStore, agreementID []byte) (coin.Coin, error) {
	a, err := loadAgreement(db, agreementID)
	if err != nil {
		return coin.Coin{}, err
	}
	return a.Escrowed, nil
}

// DisputeRecord returns the initiator and opening time of the active
// dispute. Both are zero values unless the agreement is disputed.
func DisputeRecord(db paktum.ReadOnlyKVStore, agreementID []byte) (paktum.Address, paktum.UnixTime, error) {
	a, err := loadAgreement(db, agreementID)
	if err != nil {
		return nil, 0, err
	}
	return a.DisputeInitiator, a.DisputeOpenedAt, nil
}

// Parties returns the three accounts bound by the agreement.
func Parties(db paktum.ReadOnlyKVStore, agreementID []byte) (buyer, seller, arbiter paktum.Address, err error) {
	a, err := loadAgreement(db, agreementID)
	if err != nil {
		return nil, nil, nil, err
	}
	return a.Buyer, a.Seller, a.Arbiter, nil
}
