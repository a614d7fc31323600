package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"care-daily/internal/model"
)

// Daily reports are stored row-oriented: one CSV file with a header
// row, decoded by column name so reordered columns still load.
var reportColumns = []string{
	"id",
	"business_date",
	"staff_name",
	"start_time",
	"end_time",
	"subject_user_name",
	"user_classification",
	"temperature",
	"vital_notes",
	"mood",
	"meal_state",
	"meal_detail",
	"hydration_ml",
	"toilet_record",
	"learning_tags",
	"learning_detail",
	"free_play_tags",
	"free_play_detail",
	"group_play_tags",
	"group_play_detail",
	"special_notes",
	"transport_kind",
	"vehicle",
	"transport_children",
	"transport_count",
	"arrival_time",
	"departure_time",
	"incident_flag",
	"incident_place",
	"incident_target",
	"incident_situation",
	"incident_progress",
	"incident_cause",
	"incident_measures",
	"incident_other",
	"handover_notes",
	"equipment_requests",
	"created_at",
}

func encodeReport(r model.DailyReport) []string {
	createdAt := ""
	if !r.CreatedAt.IsZero() {
		createdAt = r.CreatedAt.Format(time.RFC3339)
	}
	return []string{
		strconv.Itoa(r.ID),
		r.BusinessDate,
		r.StaffName,
		r.StartTime,
		r.EndTime,
		r.SubjectUserName,
		r.UserClassification,
		r.Temperature,
		r.VitalNotes,
		r.Mood,
		r.MealState,
		r.MealDetail,
		strconv.Itoa(r.HydrationML),
		r.ToiletRecord,
		r.LearningTags,
		r.LearningDetail,
		r.FreePlayTags,
		r.FreePlayDetail,
		r.GroupPlayTags,
		r.GroupPlayDetail,
		r.SpecialNotes,
		r.TransportKind,
		r.Vehicle,
		r.TransportChildren,
		strconv.Itoa(r.TransportCount),
		r.ArrivalTime,
		r.DepartureTime,
		r.IncidentFlag,
		r.IncidentPlace,
		r.IncidentTarget,
		r.IncidentSituation,
		r.IncidentProgress,
		r.IncidentCause,
		r.IncidentMeasures,
		r.IncidentOther,
		r.HandoverNotes,
		r.EquipmentRequests,
		createdAt,
	}
}

func decodeReport(index map[string]int, row []string) (model.DailyReport, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	intField := func(name string) (int, error) {
		raw := field(name)
		if raw == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", name, err)
		}
		return n, nil
	}

	var r model.DailyReport
	var err error
	if r.ID, err = intField("id"); err != nil {
		return r, err
	}
	if r.HydrationML, err = intField("hydration_ml"); err != nil {
		return r, err
	}
	if r.TransportCount, err = intField("transport_count"); err != nil {
		return r, err
	}
	if raw := field("created_at"); raw != "" {
		if r.CreatedAt, err = time.Parse(time.RFC3339, raw); err != nil {
			return r, fmt.Errorf("column created_at: %w", err)
		}
	}

	r.BusinessDate = field("business_date")
	r.StaffName = field("staff_name")
	r.StartTime = field("start_time")
	r.EndTime = field("end_time")
	r.SubjectUserName = field("subject_user_name")
	r.UserClassification = field("user_classification")
	r.Temperature = field("temperature")
	r.VitalNotes = field("vital_notes")
	r.Mood = field("mood")
	r.MealState = field("meal_state")
	r.MealDetail = field("meal_detail")
	r.ToiletRecord = field("toilet_record")
	r.LearningTags = field("learning_tags")
	r.LearningDetail = field("learning_detail")
	r.FreePlayTags = field("free_play_tags")
	r.FreePlayDetail = field("free_play_detail")
	r.GroupPlayTags = field("group_play_tags")
	r.GroupPlayDetail = field("group_play_detail")
	r.SpecialNotes = field("special_notes")
	r.TransportKind = field("transport_kind")
	r.Vehicle = field("vehicle")
	r.TransportChildren = field("transport_children")
	r.ArrivalTime = field("arrival_time")
	r.DepartureTime = field("departure_time")
	r.IncidentFlag = field("incident_flag")
	r.IncidentPlace = field("incident_place")
	r.IncidentTarget = field("incident_target")
	r.IncidentSituation = field("incident_situation")
	r.IncidentProgress = field("incident_progress")
	r.IncidentCause = field("incident_cause")
	r.IncidentMeasures = field("incident_measures")
	r.IncidentOther = field("incident_other")
	r.HandoverNotes = field("handover_notes")
	r.EquipmentRequests = field("equipment_requests")
	return r, nil
}

// parseReportsCSV loads the report file. Rows that fail to decode or
// validate are counted but not returned; the caller decides whether the
// bad fraction makes the file corrupt. A missing file is an empty
// collection.
func parseReportsCSV(path string) (reports []model.DailyReport, bad int, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	rd := csv.NewReader(bytes.NewReader(data))
	rd.FieldsPerRecord = -1
	rows, err := rd.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[name] = i
	}
	if _, ok := index["business_date"]; !ok {
		return nil, 0, fmt.Errorf("parse %s: missing business_date column", filepath.Base(path))
	}

	for _, row := range rows[1:] {
		r, derr := decodeReport(index, row)
		if derr != nil {
			bad++
			continue
		}
		if r.Validate() != nil {
			bad++
			continue
		}
		reports = append(reports, r)
	}
	return reports, bad, nil
}

func saveReportsCSV(path string, reports []model.DailyReport) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportColumns); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	for _, r := range reports {
		if err := w.Write(encodeReport(r)); err != nil {
			return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, buf.Bytes())
}
