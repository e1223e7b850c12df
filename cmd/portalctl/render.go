package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
)

func renderRegistrations(w io.Writer, rows []*models.RegistrationDetail) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Student", "Form", "Course", "Exam", "Submitted"})

	for _, row := range rows {
		student := row.StudentID
		if row.Student != nil && row.Student.FullName != "" {
			student = fmt.Sprintf("%s (%s)", row.Student.FullName, row.StudentID)
		}
		form := row.RegistrationFormID
		if row.Form != nil {
			form = row.Form.FormName
		}
		var examType string
		if row.ExamType != nil {
			examType = string(*row.ExamType)
		}

		table.Append([]string{
			row.ID,
			student,
			form,
			stringOrDash(row.CourseName),
			examType,
			row.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	table.Render()
}

func renderForms(w io.Writer, forms []*models.RegistrationForm, baseURL string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Type", "Status", "Submissions", "Link"})

	for _, form := range forms {
		table.Append([]string{
			form.ID,
			form.FormName,
			string(form.FormType),
			dto.FormStatus(form.IsOpen),
			fmt.Sprintf("%d", form.TotalSubmissions),
			dto.ShareLink(baseURL, form.ID),
		})
	}

	table.Render()
}

func renderStats(w io.Writer, stats *models.RegistrationStats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Status", "Count"})
	table.Append([]string{"Pending", fmt.Sprintf("%d", stats.Pending)})
	table.Append([]string{"Approved", fmt.Sprintf("%d", stats.Approved)})
	table.Append([]string{"Rejected", fmt.Sprintf("%d", stats.Rejected)})
	table.SetFooter([]string{"Total", fmt.Sprintf("%d", stats.Total)})
	table.Render()
}

func stringOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
