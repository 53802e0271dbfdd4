package models

import (
	"log"

	"bitbucket.org/bharatisweets/sweets_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&InventoryItem{},
		&RegularOrder{}, &OrderItem{},
		&EventOrder{}, &EventOrderItem{}, &EventPayment{},
		&Vendor{}, &VendorTransaction{},
		&Expense{},
		&Staff{}, &StaffAttendance{},
		&CreditCard{},
		&User{},
		&SideEffectRecord{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
