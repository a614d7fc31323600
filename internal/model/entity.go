package model

import "time"

// Classification values for service users.
const (
	ClassificationAfterSchool = "放課後等デイサービス"
	ClassificationChildDev    = "児童発達支援"
)

// User is one entry in the service-user master. Deleted users are kept
// with Active=false and DeletedAt set so they can be restored later.
// DisplayOrder is the position staff arranged the user into; listings
// follow it.
type User struct {
	ID             int        `gorm:"primaryKey" json:"id"`
	Name           string     `json:"name"`
	Classification string     `gorm:"size:64" json:"classification"`
	DisplayOrder   int        `gorm:"index" json:"display_order"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// DailyReport is one staff report for one business day. It is the
// high-volume collection; locally it lives in a CSV file.
type DailyReport struct {
	ID                 int       `gorm:"primaryKey" json:"id"`
	BusinessDate       string    `gorm:"index;size:10" json:"business_date"`
	StaffName          string    `json:"staff_name"`
	StartTime          string    `json:"start_time"`
	EndTime            string    `json:"end_time"`
	SubjectUserName    string    `json:"subject_user_name"`
	UserClassification string    `gorm:"size:64" json:"user_classification"`
	Temperature        string    `json:"temperature"`
	VitalNotes         string    `json:"vital_notes"`
	Mood               string    `json:"mood"`
	MealState          string    `json:"meal_state"`
	MealDetail         string    `json:"meal_detail"`
	HydrationML        int       `json:"hydration_ml"`
	ToiletRecord       string    `json:"toilet_record"`
	LearningTags       string    `json:"learning_tags"`
	LearningDetail     string    `json:"learning_detail"`
	FreePlayTags       string    `json:"free_play_tags"`
	FreePlayDetail     string    `json:"free_play_detail"`
	GroupPlayTags      string    `json:"group_play_tags"`
	GroupPlayDetail    string    `json:"group_play_detail"`
	SpecialNotes       string    `json:"special_notes"`
	TransportKind      string    `json:"transport_kind"`
	Vehicle            string    `json:"vehicle"`
	TransportChildren  string    `json:"transport_children"`
	TransportCount     int       `json:"transport_count"`
	ArrivalTime        string    `json:"arrival_time"`
	DepartureTime      string    `json:"departure_time"`
	IncidentFlag       string    `json:"incident_flag"`
	IncidentPlace      string    `json:"incident_place"`
	IncidentTarget     string    `json:"incident_target"`
	IncidentSituation  string    `json:"incident_situation"`
	IncidentProgress   string    `json:"incident_progress"`
	IncidentCause      string    `json:"incident_cause"`
	IncidentMeasures   string    `json:"incident_measures"`
	IncidentOther      string    `json:"incident_other"`
	HandoverNotes      string    `json:"handover_notes"`
	EquipmentRequests  string    `json:"equipment_requests"`
	CreatedAt          time.Time `json:"created_at"`
}

// StaffAccount is a login account for facility staff. The password is
// stored only as a bcrypt hash produced at the auth boundary; user IDs
// are never reused, even after soft deletion.
type StaffAccount struct {
	ID                int        `gorm:"primaryKey" json:"id"`
	UserID            string     `gorm:"uniqueIndex;size:64" json:"user_id"`
	PasswordHash      string     `json:"password_hash"`
	DisplayName       string     `json:"display_name"`
	Active            bool       `json:"active"`
	CreatedAt         time.Time  `json:"created_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
	PasswordChangedAt *time.Time `json:"password_changed_at,omitempty"`
}

// StaffView is the API-facing shape of a StaffAccount, without the hash.
type StaffView struct {
	ID          int        `json:"id"`
	UserID      string     `json:"user_id"`
	DisplayName string     `json:"display_name"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func (a StaffAccount) View() StaffView {
	return StaffView{
		ID:          a.ID,
		UserID:      a.UserID,
		DisplayName: a.DisplayName,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
		DeletedAt:   a.DeletedAt,
	}
}

// MorningMeeting is one morning-meeting minutes record. Duplicates per
// (date, staff) are allowed.
type MorningMeeting struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Date        string    `gorm:"index;size:10" json:"date"`
	StaffName   string    `json:"staff_name"`
	Agenda      string    `json:"agenda"`
	Decisions   string    `json:"decisions"`
	SharedNotes string    `json:"shared_notes"`
	OtherNotes  string    `json:"other_notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// TagType classifies activity tags.
type TagType string

const (
	TagLearning  TagType = "learning"
	TagFreePlay  TagType = "free_play"
	TagGroupPlay TagType = "group_play"
)

func (t TagType) Valid() bool {
	switch t {
	case TagLearning, TagFreePlay, TagGroupPlay:
		return true
	}
	return false
}

// Tag is one activity tag; (TagType, TagName) is unique.
type Tag struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	TagType   TagType   `gorm:"uniqueIndex:uk_tag_type_name;size:32" json:"tag_type"`
	TagName   string    `gorm:"uniqueIndex:uk_tag_type_name;size:128" json:"tag_name"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyUserRecord marks one service user as attending on one date;
// (Date, UserID) is unique and enforced at write time.
type DailyUserRecord struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"uniqueIndex:uk_record_date_user;size:10" json:"date"`
	UserID    int       `gorm:"uniqueIndex:uk_record_date_user" json:"user_id"`
	Status    string    `gorm:"size:32" json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string            { return "users_master" }
func (DailyReport) TableName() string     { return "daily_reports" }
func (StaffAccount) TableName() string    { return "staff_accounts" }
func (MorningMeeting) TableName() string  { return "morning_meetings" }
func (Tag) TableName() string             { return "tags_master" }
func (DailyUserRecord) TableName() string { return "daily_user_records" }
