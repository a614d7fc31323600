package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"care-daily/internal/model"

	"github.com/stretchr/testify/require"
)

func TestExportAll(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Users.Add(ctx, model.User{Name: "山田太郎", Classification: model.ClassificationAfterSchool})
	require.NoError(t, err)
	_, err = st.Reports.Add(ctx, model.DailyReport{BusinessDate: "2026-04-01", StaffName: "佐藤"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewExportService(st).ExportAll(ctx, &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = f
	}
	for _, want := range []string{
		"users_master.json", "daily_reports.json", "staff_accounts.json",
		"morning_meetings.json", "tags_master.json", "daily_users.json",
		"export_metadata.json",
	} {
		require.Contains(t, names, want)
	}

	rc, err := names["users_master.json"].Open()
	require.NoError(t, err)
	defer rc.Close()
	var users []model.User
	require.NoError(t, json.NewDecoder(rc).Decode(&users))
	require.Len(t, users, 1)
	require.Equal(t, "山田太郎", users[0].Name)
}
