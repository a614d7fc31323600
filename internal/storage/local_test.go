package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"care-daily/internal/config"
	"care-daily/internal/model"

	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{
			Dir:       dir,
			Backups:   config.BackupConfig{Retain: 5, MinIntervalHours: 24},
			Integrity: config.IntegrityConfig{MaxInvalidFraction: 0.5},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(testConfig(t.TempDir()))
	require.NoError(t, err)
	require.Equal(t, LocalMode, st.Mode())
	return st
}

func addUser(t *testing.T, st *Store, name string) model.User {
	t.Helper()
	u, err := st.Users.Add(context.Background(), model.User{
		Name:           name,
		Classification: model.ClassificationAfterSchool,
	})
	require.NoError(t, err)
	return u
}

func TestUsersLifecycle(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	taro := addUser(t, st, "山田太郎")
	require.Equal(t, 1, taro.ID)
	require.True(t, taro.Active)

	hanako := addUser(t, st, "鈴木花子")
	require.Equal(t, 2, hanako.ID)

	// Duplicate active name is rejected.
	_, err := st.Users.Add(ctx, model.User{Name: "山田太郎", Classification: model.ClassificationChildDev})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "name", ve.Field)

	// Soft delete keeps the record visible and restorable.
	require.NoError(t, st.Users.Delete(ctx, taro.ID))
	users, err := st.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.False(t, users[0].Active)
	require.NotNil(t, users[0].DeletedAt)

	// The freed name can be taken by a new user.
	taro2 := addUser(t, st, "山田太郎")
	require.Equal(t, 3, taro2.ID)

	require.NoError(t, st.Users.Restore(ctx, taro.ID))
	users, err = st.Users.List(ctx)
	require.NoError(t, err)
	require.True(t, users[0].Active)
	require.Nil(t, users[0].DeletedAt)

	require.NoError(t, st.Users.Purge(ctx, taro2.ID))
	users, err = st.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	require.ErrorIs(t, st.Users.Delete(ctx, 99), ErrNotFound)
	require.ErrorIs(t, st.Users.Restore(ctx, 99), ErrNotFound)
	require.ErrorIs(t, st.Users.Purge(ctx, 99), ErrNotFound)
}

func TestUsersUpdatePreservesIdentity(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	u := addUser(t, st, "山田太郎")
	u.Name = "山田太朗"
	u.Classification = model.ClassificationChildDev

	saved, err := st.Users.Update(ctx, u.ID, u)
	require.NoError(t, err)
	require.Equal(t, u.ID, saved.ID)
	require.Equal(t, "山田太朗", saved.Name)
	require.Equal(t, u.CreatedAt.Unix(), saved.CreatedAt.Unix())

	_, err = st.Users.Update(ctx, 42, u)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUsersReorder(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	a := addUser(t, st, "山田太郎")
	b := addUser(t, st, "鈴木花子")
	c := addUser(t, st, "田中一郎")
	require.NoError(t, st.Users.Delete(ctx, c.ID))

	// c is listed first but deleted, a is never listed, 99 matches
	// nobody. Listed ids lead, then unlisted active, then deleted.
	require.NoError(t, st.Users.Reorder(ctx, []int{b.ID, 99}))

	users, err := st.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, []int{b.ID, a.ID, c.ID}, []int{users[0].ID, users[1].ID, users[2].ID})
	require.Equal(t, []int{1, 2, 3}, []int{users[0].DisplayOrder, users[1].DisplayOrder, users[2].DisplayOrder})
}

func TestUsersAddAppendsToDisplayOrder(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	a := addUser(t, st, "山田太郎")
	b := addUser(t, st, "鈴木花子")
	require.Equal(t, 1, a.DisplayOrder)
	require.Equal(t, 2, b.DisplayOrder)
}

func TestStaffUserIDNeverReused(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	a, err := st.Staff.Add(ctx, model.StaffAccount{UserID: "staff01", PasswordHash: "h", DisplayName: "佐藤"})
	require.NoError(t, err)

	require.NoError(t, st.Staff.Delete(ctx, a.ID))

	// Even after soft deletion the user id stays taken.
	_, err = st.Staff.Add(ctx, model.StaffAccount{UserID: "staff01", PasswordHash: "h", DisplayName: "別の佐藤"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "user_id", ve.Field)

	got, err := st.Staff.FindByUserID(ctx, "staff01")
	require.NoError(t, err)
	require.False(t, got.Active)

	_, err = st.Staff.FindByUserID(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStaffUpdateKeepsUserID(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	a, err := st.Staff.Add(ctx, model.StaffAccount{UserID: "staff01", PasswordHash: "h", DisplayName: "佐藤"})
	require.NoError(t, err)

	a.UserID = "hijacked"
	a.DisplayName = "佐藤(改)"
	saved, err := st.Staff.Update(ctx, a.ID, a)
	require.NoError(t, err)
	require.Equal(t, "staff01", saved.UserID)
	require.Equal(t, "佐藤(改)", saved.DisplayName)
}

func TestReportsRangeFilter(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2026-04-01", "2026-04-02", "2026-04-03"} {
		_, err := st.Reports.Add(ctx, model.DailyReport{BusinessDate: date, StaffName: "佐藤"})
		require.NoError(t, err)
	}

	all, err := st.Reports.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []int{1, 2, 3}, []int{all[0].ID, all[1].ID, all[2].ID})

	mid, err := st.Reports.List(ctx, "2026-04-02", "2026-04-02")
	require.NoError(t, err)
	require.Len(t, mid, 1)
	require.Equal(t, "2026-04-02", mid[0].BusinessDate)

	tail, err := st.Reports.List(ctx, "2026-04-02", "")
	require.NoError(t, err)
	require.Len(t, tail, 2)
}

func TestReportsUpdateDelete(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	r, err := st.Reports.Add(ctx, model.DailyReport{BusinessDate: "2026-04-01", StaffName: "佐藤", HydrationML: 100})
	require.NoError(t, err)

	r.HydrationML = 250
	saved, err := st.Reports.Update(ctx, r.ID, r)
	require.NoError(t, err)
	require.Equal(t, 250, saved.HydrationML)

	require.NoError(t, st.Reports.Delete(ctx, r.ID))
	require.ErrorIs(t, st.Reports.Delete(ctx, r.ID), ErrNotFound)
}

func TestTagsUniquePerType(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Tags.Add(ctx, model.Tag{TagType: model.TagLearning, TagName: "漢字練習"})
	require.NoError(t, err)

	// Same name under a different type is a different tag.
	_, err = st.Tags.Add(ctx, model.Tag{TagType: model.TagFreePlay, TagName: "漢字練習"})
	require.NoError(t, err)

	_, err = st.Tags.Add(ctx, model.Tag{TagType: model.TagLearning, TagName: "漢字練習"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)

	learning, err := st.Tags.List(ctx, model.TagLearning)
	require.NoError(t, err)
	require.Len(t, learning, 1)

	all, err := st.Tags.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestRecordsUniquePerDateAndUser(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Records.Add(ctx, model.DailyUserRecord{Date: "2026-04-01", UserID: 1, Status: "present"})
	require.NoError(t, err)

	_, err = st.Records.Add(ctx, model.DailyUserRecord{Date: "2026-04-01", UserID: 1, Status: "present"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "user_id", ve.Field)

	// Same user on another day, and another user on the same day.
	_, err = st.Records.Add(ctx, model.DailyUserRecord{Date: "2026-04-02", UserID: 1, Status: "present"})
	require.NoError(t, err)
	_, err = st.Records.Add(ctx, model.DailyUserRecord{Date: "2026-04-01", UserID: 2, Status: "absent"})
	require.NoError(t, err)

	day, err := st.Records.List(ctx, "2026-04-01")
	require.NoError(t, err)
	require.Len(t, day, 2)
}

func TestMeetingsRangeFilter(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	// Duplicate (date, staff) pairs are allowed for meetings.
	for i := 0; i < 2; i++ {
		_, err := st.Meetings.Add(ctx, model.MorningMeeting{Date: "2026-04-01", StaffName: "佐藤", Agenda: fmt.Sprintf("議題%d", i)})
		require.NoError(t, err)
	}
	_, err := st.Meetings.Add(ctx, model.MorningMeeting{Date: "2026-04-05", StaffName: "鈴木"})
	require.NoError(t, err)

	early, err := st.Meetings.List(ctx, "", "2026-04-02")
	require.NoError(t, err)
	require.Len(t, early, 2)
}

func TestConcurrentAddsAssignUniqueIDs(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = st.Meetings.Add(ctx, model.MorningMeeting{Date: "2026-04-01", StaffName: fmt.Sprintf("staff-%d", i)})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	meetings, err := st.Meetings.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, meetings, n)

	seen := make(map[int]bool, n)
	for _, m := range meetings {
		require.False(t, seen[m.ID], "duplicate id %d", m.ID)
		seen[m.ID] = true
	}
}

func TestLoadDoesNotCreateFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	st, err := Open(testConfig(dir))
	require.NoError(t, err)

	users, err := st.Users.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)

	// Reading an empty collection must not materialize its file.
	require.NoFileExists(t, dir+"/"+usersFile)
}

func TestValidationErrorUnwrapping(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	_, err := st.Users.Add(context.Background(), model.User{Name: ""})
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
}
