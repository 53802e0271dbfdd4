package models

import (
	"context"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"github.com/shopspring/decimal"
)

type Staff struct {
	ID         int                `gorm:"primary_key" json:"id"`
	Name       string             `gorm:"size:100;not null" json:"name" binding:"required"`
	Position   string             `gorm:"size:100" json:"position"`
	Contact    string             `gorm:"size:100" json:"contact"`
	Salary     decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"salary"`
	Attendance []StaffAttendance  `gorm:"foreignKey:StaffId" json:"attendance"`
	CreatedAt  time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

// StaffAttendance rows are append-only day entries.
type StaffAttendance struct {
	ID       int              `gorm:"primary_key" json:"id"`
	StaffId  int              `gorm:"index;not null" json:"staff_id"`
	Date     time.Time        `gorm:"not null;index" json:"date"`
	CheckIn  string           `gorm:"size:10" json:"check_in"`
	CheckOut string           `gorm:"size:10" json:"check_out"`
	Status   AttendanceStatus `gorm:"size:10;not null" json:"status"`
}

type NewStaff struct {
	Name     string          `json:"name" binding:"required"`
	Position string          `json:"position"`
	Contact  string          `json:"contact"`
	Salary   decimal.Decimal `json:"salary"`
}

type NewStaffAttendance struct {
	Date     time.Time        `json:"date"`
	CheckIn  string           `json:"check_in"`
	CheckOut string           `json:"check_out"`
	Status   AttendanceStatus `json:"status" binding:"required"`
}

func CreateStaff(ctx context.Context, input *NewStaff) (*Staff, error) {

	if input.Salary.IsNegative() {
		return nil, utils.NewValidationError("salary must not be negative")
	}
	staff := Staff{
		Name:     input.Name,
		Position: input.Position,
		Contact:  input.Contact,
		Salary:   input.Salary,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func UpdateStaff(ctx context.Context, id int, input *NewStaff) (*Staff, error) {

	staff, err := utils.FetchModel[Staff](ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Salary.IsNegative() {
		return nil, utils.NewValidationError("salary must not be negative")
	}

	staff.Name = input.Name
	staff.Position = input.Position
	staff.Contact = input.Contact
	staff.Salary = input.Salary

	db := config.GetDB()
	if err := db.WithContext(ctx).Omit("Attendance").Save(staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func DeleteStaff(ctx context.Context, id int) error {

	if err := utils.ValidateResourceId[Staff](ctx, id); err != nil {
		return err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("staff_id = ?", id).Delete(&StaffAttendance{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(&Staff{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func FetchStaffList(ctx context.Context) ([]*Staff, error) {

	db := config.GetDB()
	var staff []*Staff
	err := db.WithContext(ctx).Preload("Attendance").Order("name ASC").Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func AddStaffAttendance(ctx context.Context, staffId int, input *NewStaffAttendance) (*StaffAttendance, error) {

	if !input.Status.Valid() {
		return nil, utils.NewValidationError("invalid attendance status")
	}
	if err := utils.ValidateResourceId[Staff](ctx, staffId); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}
	entry := StaffAttendance{
		StaffId:  staffId,
		Date:     date,
		CheckIn:  input.CheckIn,
		CheckOut: input.CheckOut,
		Status:   input.Status,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
