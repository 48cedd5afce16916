package domain

import (
	"time"

	"github.com/m04kA/DS-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking request
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
)

// PackageID represents a course package from the public catalog
type PackageID string

const (
	Package15Days     PackageID = "15-days"
	Package1Month     PackageID = "1-month"
	PackagePayAsYouGo PackageID = "pay-as-you-go"
)

// CatalogPackages packages a student may pick when submitting a booking
var CatalogPackages = []PackageID{Package15Days, Package1Month, PackagePayAsYouGo}

// AssignedPackage represents the package tier assigned by an admin on approval
type AssignedPackage string

const (
	Assigned15Days     AssignedPackage = "15-days"
	Assigned1Month     AssignedPackage = "1-month"
	AssignedOldStudent AssignedPackage = "old-student"
)

// AssignablePackages package tiers an admin may assign during confirmation
var AssignablePackages = []AssignedPackage{Assigned15Days, Assigned1Month, AssignedOldStudent}

// WhyLearning reason category supplied with a booking request
type WhyLearning string

const (
	WhyGoingAbroad   WhyLearning = "going-abroad"
	WhyInterestHobby WhyLearning = "interest-hobby"
	WhyWorkCareer    WhyLearning = "work-career"
	WhyOthers        WhyLearning = "others"
)

// WhyLearningValues allowed values for the whyLearning field
var WhyLearningValues = []WhyLearning{WhyGoingAbroad, WhyInterestHobby, WhyWorkCareer, WhyOthers}

// PaymentMethod способ оплаты взноса
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentBank  PaymentMethod = "bank"
	PaymentOther PaymentMethod = "other"
)

// PaymentMethods allowed payment methods
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentBank, PaymentOther}

// Payment одна запись в журнале платежей бронирования (append-only)
type Payment struct {
	ID        int64
	BookingID int64
	Amount    float64
	PaidAt    time.Time
	Method    PaymentMethod
	Notes     *string
}

// Booking represents a slot reservation request in the system.
// The pair (SelectedDate, SelectedTime) is the occupancy key: at most one
// booking with status pending or confirmed may hold it.
type Booking struct {
	ID           int64
	UserUID      string
	PackageID    PackageID
	SelectedDate time.Time // date only, time-of-day truncated to midnight
	SelectedTime types.TimeString
	Status       BookingStatus

	// Requester snapshot
	Phone            string
	Email            *string
	Name             string
	Age              int
	Gender           string
	WhyLearning      WhyLearning
	Address          string
	PreviousTraining bool

	// Admin-assigned fields, present once confirmed or later
	AssignedPackage *AssignedPackage
	Fee             *float64
	TotalPaid       float64
	Due             float64
	Payments        []Payment
	InvoiceNumber   *string

	// Version optimistic concurrency token, bumped on every admin mutation
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending returns true if the booking is still awaiting an admin decision
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// OccupiesSlot returns true if the booking holds its (date, time) slot
func (b *Booking) OccupiesSlot() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsDecided returns true if the booking reached a terminal state
func (b *Booking) IsDecided() bool {
	return b.Status == StatusConfirmed || b.Status == StatusRejected
}

// RecomputeDue пересчитывает остаток к оплате из fee и totalPaid
func (b *Booking) RecomputeDue() {
	if b.Fee == nil {
		b.Due = 0
		return
	}
	b.Due = *b.Fee - b.TotalPaid
}

// IsValidPackageID returns true if id is one of the catalog packages
func IsValidPackageID(id PackageID) bool {
	for _, p := range CatalogPackages {
		if p == id {
			return true
		}
	}
	return false
}

// IsValidAssignedPackage returns true if p is an assignable package tier
func IsValidAssignedPackage(p AssignedPackage) bool {
	for _, a := range AssignablePackages {
		if a == p {
			return true
		}
	}
	return false
}

// IsValidWhyLearning returns true if w is an allowed reason category
func IsValidWhyLearning(w WhyLearning) bool {
	for _, v := range WhyLearningValues {
		if v == w {
			return true
		}
	}
	return false
}

// IsValidPaymentMethod returns true if m is an allowed payment method
func IsValidPaymentMethod(m PaymentMethod) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}
