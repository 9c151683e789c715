package models

// PlanType is a member's subscription cadence.
type PlanType string

const (
	PlanMonthly     PlanType = "monthly"
	PlanFifteenDays PlanType = "15days"
	PlanNasta       PlanType = "nasta"
	PlanCustom      PlanType = "custom"
)

// FoodTime is the number of daily meals a member is entitled to.
type FoodTime string

const (
	FoodTimeOne   FoodTime = "1 time"
	FoodTimeTwo   FoodTime = "2 times"
	FoodTimeThree FoodTime = "3 times"
)

type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
	Holiday AttendanceStatus = "holiday"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodUPI          PaymentMethod = "upi"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

// Entity names the record kind an activity entry refers to.
type Entity string

const (
	EntityMember     Entity = "member"
	EntityAttendance Entity = "attendance"
	EntityPayment    Entity = "payment"
	EntitySystem     Entity = "system"
)

const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// DayLayout is the storage format of a calendar day.
const DayLayout = "2006-01-02"

func (f FoodTime) Valid() bool {
	switch f {
	case FoodTimeOne, FoodTimeTwo, FoodTimeThree:
		return true
	}
	return false
}
