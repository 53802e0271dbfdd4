package models

// String-backed enums; gorm persists them as their literal values and the
// handlers reject anything outside the closed sets below.

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in-stock"
	StockStatusLowStock   StockStatus = "low-stock"
	StockStatusOutOfStock StockStatus = "out-of-stock"
)

type OrderPaymentMethod string

const (
	OrderPaymentMethodCash     OrderPaymentMethod = "cash"
	OrderPaymentMethodPhonePay OrderPaymentMethod = "phonepay"
	OrderPaymentMethodGPay     OrderPaymentMethod = "gpay"
	OrderPaymentMethodCard     OrderPaymentMethod = "card"
)

func (m OrderPaymentMethod) Valid() bool {
	switch m {
	case OrderPaymentMethodCash, OrderPaymentMethodPhonePay, OrderPaymentMethodGPay, OrderPaymentMethodCard:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type EventOrderStatus string

const (
	EventOrderStatusPending   EventOrderStatus = "pending"
	EventOrderStatusConfirmed EventOrderStatus = "confirmed"
	EventOrderStatusPreparing EventOrderStatus = "preparing"
	EventOrderStatusReady     EventOrderStatus = "ready"
	EventOrderStatusDelivered EventOrderStatus = "delivered"
	EventOrderStatusCancelled EventOrderStatus = "cancelled"
)

func (s EventOrderStatus) Valid() bool {
	switch s {
	case EventOrderStatusPending, EventOrderStatusConfirmed, EventOrderStatusPreparing,
		EventOrderStatusReady, EventOrderStatusDelivered, EventOrderStatusCancelled:
		return true
	}
	return false
}

type VendorType string

const (
	VendorTypeMilk      VendorType = "milk"
	VendorTypeChenna    VendorType = "chenna"
	VendorTypeSugar     VendorType = "sugar"
	VendorTypeGhee      VendorType = "ghee"
	VendorTypeFlour     VendorType = "flour"
	VendorTypePackaging VendorType = "packaging"
	VendorTypeOther     VendorType = "other"
)

func (t VendorType) Valid() bool {
	switch t {
	case VendorTypeMilk, VendorTypeChenna, VendorTypeSugar, VendorTypeGhee,
		VendorTypeFlour, VendorTypePackaging, VendorTypeOther:
		return true
	}
	return false
}

type VendorPaymentMethod string

const (
	VendorPaymentMethodCash    VendorPaymentMethod = "cash"
	VendorPaymentMethodPhonePe VendorPaymentMethod = "phonepe"
	VendorPaymentMethodGPay    VendorPaymentMethod = "gpay"
	VendorPaymentMethodPaytm   VendorPaymentMethod = "paytm"
	VendorPaymentMethodCard    VendorPaymentMethod = "card"
	VendorPaymentMethodBank    VendorPaymentMethod = "bank"
)

func (m VendorPaymentMethod) Valid() bool {
	switch m {
	case VendorPaymentMethodCash, VendorPaymentMethodPhonePe, VendorPaymentMethodGPay,
		VendorPaymentMethodPaytm, VendorPaymentMethodCard, VendorPaymentMethodBank:
		return true
	}
	return false
}

type ExpenseCategory string

const (
	ExpenseCategoryIngredients    ExpenseCategory = "ingredients"
	ExpenseCategoryPackaging      ExpenseCategory = "packaging"
	ExpenseCategoryUtilities      ExpenseCategory = "utilities"
	ExpenseCategoryRent           ExpenseCategory = "rent"
	ExpenseCategorySalaries       ExpenseCategory = "salaries"
	ExpenseCategoryMarketing      ExpenseCategory = "marketing"
	ExpenseCategoryEquipment      ExpenseCategory = "equipment"
	ExpenseCategoryTransportation ExpenseCategory = "transportation"
	ExpenseCategoryOther          ExpenseCategory = "other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseCategoryIngredients, ExpenseCategoryPackaging, ExpenseCategoryUtilities,
		ExpenseCategoryRent, ExpenseCategorySalaries, ExpenseCategoryMarketing,
		ExpenseCategoryEquipment, ExpenseCategoryTransportation, ExpenseCategoryOther:
		return true
	}
	return false
}

type ExpensePaymentMethod string

const (
	ExpensePaymentMethodCash         ExpensePaymentMethod = "cash"
	ExpensePaymentMethodCard         ExpensePaymentMethod = "card"
	ExpensePaymentMethodBankTransfer ExpensePaymentMethod = "bank_transfer"
	ExpensePaymentMethodUPI          ExpensePaymentMethod = "upi"
)

func (m ExpensePaymentMethod) Valid() bool {
	switch m {
	case ExpensePaymentMethodCash, ExpensePaymentMethodCard, ExpensePaymentMethodBankTransfer, ExpensePaymentMethodUPI:
		return true
	}
	return false
}

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusLeave   AttendanceStatus = "leave"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusLeave:
		return true
	}
	return false
}
