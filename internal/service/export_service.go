package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/schoolops/timetable-api/internal/dto"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
	"github.com/schoolops/timetable-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type sectionTimetableProvider interface {
	ListSectionAssignments(ctx context.Context, schoolID, classID, sectionID string) ([]dto.SectionTimetableEntry, error)
}

type teacherScheduleProvider interface {
	GetTeacherSchedule(ctx context.Context, teacherID string) ([]dto.TeacherScheduleEntry, error)
}

// ExportResult bundles rendered bytes with download metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders timetables into downloadable CSV and PDF documents.
type ExportService struct {
	sections sectionTimetableProvider
	teachers teacherScheduleProvider
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(sections sectionTimetableProvider, teachers teacherScheduleProvider, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		sections: sections,
		teachers: teachers,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// ExportSectionTimetable renders a section's timetable in the requested format.
func (s *ExportService) ExportSectionTimetable(ctx context.Context, schoolID, classID, sectionID, format string) (*ExportResult, error) {
	entries, err := s.sections.ListSectionAssignments(ctx, schoolID, classID, sectionID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Day", "Period", "Start", "End", "Subject", "Teacher"},
	}
	for _, entry := range entries {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":     entry.Day,
			"Period":  strconv.Itoa(entry.Period),
			"Start":   entry.StartTime,
			"End":     entry.EndTime,
			"Subject": entry.SubjectName,
			"Teacher": entry.TeacherName,
		})
	}
	return s.render(dataset, format, "section timetable", fmt.Sprintf("section-timetable-%s", sectionID))
}

// ExportTeacherSchedule renders a teacher's aggregated schedule in the
// requested format.
func (s *ExportService) ExportTeacherSchedule(ctx context.Context, teacherID, format string) (*ExportResult, error) {
	schedule, err := s.teachers.GetTeacherSchedule(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Day", "Period", "School", "Class", "Section", "Subject"},
	}
	for _, entry := range schedule {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":     entry.Day,
			"Period":  strconv.Itoa(entry.Period),
			"School":  entry.SchoolName,
			"Class":   entry.ClassName,
			"Section": entry.SectionName,
			"Subject": entry.SubjectName,
		})
	}
	return s.render(dataset, format, "teacher schedule", fmt.Sprintf("teacher-schedule-%s", teacherID))
}

func (s *ExportService) render(dataset export.Dataset, format, title, basename string) (*ExportResult, error) {
	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: basename + ".csv"}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: basename + ".pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
