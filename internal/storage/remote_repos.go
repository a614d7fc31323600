package storage

import (
	"context"
	"strings"
	"time"

	"care-daily/internal/model"
)

// Each remote operation maps to a single-table statement; there are no
// cross-entity transactions and no local caching, the remote store is
// the shared source of truth.

type remoteUsers struct{ c *remoteClient }

func (r remoteUsers) List(ctx context.Context) ([]model.User, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	var users []model.User
	if err := db.Order("display_order, id").Find(&users).Error; err != nil {
		return nil, wrapRemote(err)
	}
	return users, nil
}

func (r remoteUsers) Add(ctx context.Context, u model.User) (model.User, error) {
	u.ID = 0
	u.Name = strings.TrimSpace(u.Name)
	u.Active = true
	u.DeletedAt = nil
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if err := u.Validate(); err != nil {
		return model.User{}, err
	}

	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.User{}, err
	}
	defer cancel()

	var count int64
	if err := db.Model(&model.User{}).Where("name = ? AND active = ?", u.Name, true).Count(&count).Error; err != nil {
		return model.User{}, wrapRemote(err)
	}
	if count > 0 {
		return model.User{}, &model.ValidationError{Field: "name", Reason: "user already exists"}
	}
	var maxOrder int
	if err := db.Model(&model.User{}).Select("COALESCE(MAX(display_order), 0)").Scan(&maxOrder).Error; err != nil {
		return model.User{}, wrapRemote(err)
	}
	u.DisplayOrder = maxOrder + 1
	if err := db.Create(&u).Error; err != nil {
		return model.User{}, wrapRemote(err)
	}
	return u, nil
}

func (r remoteUsers) Update(ctx context.Context, id int, u model.User) (model.User, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.User{}, err
	}
	defer cancel()

	var existing model.User
	if err := db.First(&existing, id).Error; err != nil {
		return model.User{}, wrapRemote(err)
	}
	u.ID = id
	u.CreatedAt = existing.CreatedAt
	if err := u.Validate(); err != nil {
		return model.User{}, err
	}
	if err := db.Save(&u).Error; err != nil {
		return model.User{}, wrapRemote(err)
	}
	return u, nil
}

func (r remoteUsers) Delete(ctx context.Context, id int) error {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	var u model.User
	if err := db.First(&u, id).Error; err != nil {
		return wrapRemote(err)
	}
	now := time.Now()
	u.Active = false
	u.DeletedAt = &now
	return wrapRemote(db.Save(&u).Error)
}

func (r remoteUsers) Restore(ctx context.Context, id int) error {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	var u model.User
	if err := db.First(&u, id).Error; err != nil {
		return wrapRemote(err)
	}
	u.Active = true
	u.DeletedAt = nil
	return wrapRemote(db.Save(&u).Error)
}

func (r remoteUsers) Reorder(ctx context.Context, ids []int) error {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	var users []model.User
	if err := db.Order("display_order, id").Find(&users).Error; err != nil {
		return wrapRemote(err)
	}
	for i, u := range orderUsers(users, ids) {
		if u.DisplayOrder == i+1 {
			continue
		}
		if err := db.Model(&model.User{}).Where("id = ?", u.ID).Update("display_order", i+1).Error; err != nil {
			return wrapRemote(err)
		}
	}
	return nil
}

func (r remoteUsers) Purge(ctx context.Context, id int) error {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	res := db.Delete(&model.User{}, id)
	if res.Error != nil {
		return wrapRemote(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type remoteReports struct{ c *remoteClient }

func (r remoteReports) List(ctx context.Context, from, to string) ([]model.DailyReport, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	q := db.Order("business_date, id")
	if from != "" {
		q = q.Where("business_date >= ?", from)
	}
	if to != "" {
		q = q.Where("business_date <= ?", to)
	}
	var reports []model.DailyReport
	if err := q.Find(&reports).Error; err != nil {
		return nil, wrapRemote(err)
	}
	return reports, nil
}

func (r remoteReports) Add(ctx context.Context, rep model.DailyReport) (model.DailyReport, error) {
	rep.ID = 0
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now()
	}
	if err := rep.Validate(); err != nil {
		return model.DailyReport{}, err
	}

	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.DailyReport{}, err
	}
	defer cancel()
	if err := db.Create(&rep).Error; err != nil {
		return model.DailyReport{}, wrapRemote(err)
	}
	return rep, nil
}

func (r remoteReports) Update(ctx context.Context, id int, rep model.DailyReport) (model.DailyReport, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.DailyReport{}, err
	}
	defer cancel()

	var existing model.DailyReport
	if err := db.First(&existing, id).Error; err != nil {
		return model.DailyReport{}, wrapRemote(err)
	}
	rep.ID = id
	rep.CreatedAt = existing.CreatedAt
	if err := rep.Validate(); err != nil {
		return model.DailyReport{}, err
	}
	if err := db.Save(&rep).Error; err != nil {
		return model.DailyReport{}, wrapRemote(err)
	}
	return rep, nil
}

func (r remoteReports) Delete(ctx context.Context, id int) error {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	res := db.Delete(&model.DailyReport{}, id)
	if res.Error != nil {
		return wrapRemote(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type remoteStaff struct{ c *remoteClient }

func (r remoteStaff) List(ctx context.Context) ([]model.StaffAccount, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	var accounts []model.StaffAccount
	if err := db.Order("id").Find(&accounts).Error; err != nil {
		return nil, wrapRemote(err)
	}
	return accounts, nil
}

func (r remoteStaff) FindByUserID(ctx context.Context, userID string) (model.StaffAccount, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.StaffAccount{}, err
	}
	defer cancel()
	var a model.StaffAccount
	if err := db.Where("user_id = ?", userID).First(&a).Error; err != nil {
		return model.StaffAccount{}, wrapRemote(err)
	}
	return a, nil
}

func (r remoteStaff) Add(ctx context.Context, a model.StaffAccount) (model.StaffAccount, error) {
	a.ID = 0
	a.UserID = strings.TrimSpace(a.UserID)
	a.Active = true
	a.DeletedAt = nil
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if err := a.Validate(); err != nil {
		return model.StaffAccount{}, err
	}

	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.StaffAccount{}, err
	}
	defer cancel()

	// Checked here for a precise error; the unique index on user_id is
	// the backstop against racing writers.
	var count int64
	if err := db.Model(&model.StaffAccount{}).Where("user_id = ?", a.UserID).Count(&count).Error; err != nil {
		return model.StaffAccount{}, wrapRemote(err)
	}
	if count > 0 {
		return model.StaffAccount{}, &model.ValidationError{Field: "user_id", Reason: "already taken"}
	}
	if err := db.Create(&a).Error; err != nil {
		return model.StaffAccount{}, wrapRemote(err)
	}
	return a, nil
}

func (r remoteStaff) Update(ctx context.Context, id int, a model.StaffAccount) (model.StaffAccount, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.StaffAccount{}, err
	}
	defer cancel()

	var existing model.StaffAccount
	if err := db.First(&existing, id).Error; err != nil {
		return model.StaffAccount{}, wrapRemote(err)
	}
	a.ID = id
	a.UserID = existing.UserID
	a.CreatedAt = existing.CreatedAt
	if err := a.Validate(); err != nil {
		return model.StaffAccount{}, err
	}
	if err := db.Save(&a).Error; err != nil {
		return model.StaffAccount{}, wrapRemote(err)
	}
	return a, nil
}

func (r remoteStaff) Delete(ctx context.Context, id int) error {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	var a model.StaffAccount
	if err := db.First(&a, id).Error; err != nil {
		return wrapRemote(err)
	}
	now := time.Now()
	a.Active = false
	a.DeletedAt = &now
	return wrapRemote(db.Save(&a).Error)
}

type remoteMeetings struct{ c *remoteClient }

func (r remoteMeetings) List(ctx context.Context, from, to string) ([]model.MorningMeeting, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	q := db.Order("date, id")
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	var meetings []model.MorningMeeting
	if err := q.Find(&meetings).Error; err != nil {
		return nil, wrapRemote(err)
	}
	return meetings, nil
}

func (r remoteMeetings) Add(ctx context.Context, m model.MorningMeeting) (model.MorningMeeting, error) {
	m.ID = 0
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if err := m.Validate(); err != nil {
		return model.MorningMeeting{}, err
	}

	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.MorningMeeting{}, err
	}
	defer cancel()
	if err := db.Create(&m).Error; err != nil {
		return model.MorningMeeting{}, wrapRemote(err)
	}
	return m, nil
}

func (r remoteMeetings) Update(ctx context.Context, id int, m model.MorningMeeting) (model.MorningMeeting, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.MorningMeeting{}, err
	}
	defer cancel()

	var existing model.MorningMeeting
	if err := db.First(&existing, id).Error; err != nil {
		return model.MorningMeeting{}, wrapRemote(err)
	}
	m.ID = id
	m.CreatedAt = existing.CreatedAt
	if err := m.Validate(); err != nil {
		return model.MorningMeeting{}, err
	}
	if err := db.Save(&m).Error; err != nil {
		return model.MorningMeeting{}, wrapRemote(err)
	}
	return m, nil
}

func (r remoteMeetings) Delete(ctx context.Context, id int) error {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	res := db.Delete(&model.MorningMeeting{}, id)
	if res.Error != nil {
		return wrapRemote(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type remoteTags struct{ c *remoteClient }

func (r remoteTags) List(ctx context.Context, tagType model.TagType) ([]model.Tag, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	q := db.Order("id")
	if tagType != "" {
		q = q.Where("tag_type = ?", tagType)
	}
	var tags []model.Tag
	if err := q.Find(&tags).Error; err != nil {
		return nil, wrapRemote(err)
	}
	return tags, nil
}

func (r remoteTags) Add(ctx context.Context, t model.Tag) (model.Tag, error) {
	t.ID = 0
	t.TagName = strings.TrimSpace(t.TagName)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if err := t.Validate(); err != nil {
		return model.Tag{}, err
	}

	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.Tag{}, err
	}
	defer cancel()

	var count int64
	if err := db.Model(&model.Tag{}).Where("tag_type = ? AND tag_name = ?", t.TagType, t.TagName).Count(&count).Error; err != nil {
		return model.Tag{}, wrapRemote(err)
	}
	if count > 0 {
		return model.Tag{}, &model.ValidationError{Field: "tag_name", Reason: "tag already exists"}
	}
	if err := db.Create(&t).Error; err != nil {
		return model.Tag{}, wrapRemote(err)
	}
	return t, nil
}

func (r remoteTags) Delete(ctx context.Context, id int) error {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	res := db.Delete(&model.Tag{}, id)
	if res.Error != nil {
		return wrapRemote(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type remoteRecords struct{ c *remoteClient }

func (r remoteRecords) List(ctx context.Context, date string) ([]model.DailyUserRecord, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	q := db.Order("date, user_id")
	if date != "" {
		q = q.Where("date = ?", date)
	}
	var records []model.DailyUserRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, wrapRemote(err)
	}
	return records, nil
}

func (r remoteRecords) Add(ctx context.Context, rec model.DailyUserRecord) (model.DailyUserRecord, error) {
	rec.ID = 0
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if err := rec.Validate(); err != nil {
		return model.DailyUserRecord{}, err
	}

	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.DailyUserRecord{}, err
	}
	defer cancel()

	var count int64
	if err := db.Model(&model.DailyUserRecord{}).Where("date = ? AND user_id = ?", rec.Date, rec.UserID).Count(&count).Error; err != nil {
		return model.DailyUserRecord{}, wrapRemote(err)
	}
	if count > 0 {
		return model.DailyUserRecord{}, &model.ValidationError{Field: "user_id", Reason: "already recorded for this date"}
	}
	if err := db.Create(&rec).Error; err != nil {
		return model.DailyUserRecord{}, wrapRemote(err)
	}
	return rec, nil
}

func (r remoteRecords) Update(ctx context.Context, id int, rec model.DailyUserRecord) (model.DailyUserRecord, error) {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return model.DailyUserRecord{}, err
	}
	defer cancel()

	var existing model.DailyUserRecord
	if err := db.First(&existing, id).Error; err != nil {
		return model.DailyUserRecord{}, wrapRemote(err)
	}
	rec.ID = id
	rec.CreatedAt = existing.CreatedAt
	if err := rec.Validate(); err != nil {
		return model.DailyUserRecord{}, err
	}
	if err := db.Save(&rec).Error; err != nil {
		return model.DailyUserRecord{}, wrapRemote(err)
	}
	return rec, nil
}

func (r remoteRecords) Delete(ctx context.Context, id int) error {
	db, cancel, err := r.c.op(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	res := db.Delete(&model.DailyUserRecord{}, id)
	if res.Error != nil {
		return wrapRemote(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
