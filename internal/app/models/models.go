package models

import "strings"

// UserType defines the admin console role
type UserType string

const (
	UserTypeAdmin UserType = "ADMIN"
	UserTypeDean  UserType = "DEAN"
	UserTypeHOD   UserType = "HOD"
	UserTypeUser  UserType = "USER"
)

// UserStatus defines whether an admin account may sign in
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// FormType is the kind of campaign a registration form runs
type FormType string

const (
	FormTypeSpecialExam     FormType = "SPECIAL_EXAM"
	FormTypeClearanceExam   FormType = "CLEARANCE_EXAM"
	FormTypeAdministrative  FormType = "ADMINISTRATIVE"
	FormTypeResitExam       FormType = "RESIT_EXAM"
	FormTypeImprovementExam FormType = "IMPROVEMENT_EXAM"
)

// Shift is the student's study schedule
type Shift string

const (
	ShiftFullTime Shift = "FULL_TIME"
	ShiftPartTime Shift = "PART_TIME"
)

// ExamScope is what a registration covers
type ExamScope string

const (
	ExamScopeAllMidterm ExamScope = "ALL_MIDTERM"
	ExamScopeAllFinal   ExamScope = "ALL_FINAL"
	ExamScopeSpecific   ExamScope = "SPECIFIC"
)

// ExamType is the sitting a course registration targets
type ExamType string

const (
	ExamTypeMidterm ExamType = "MIDTERM"
	ExamTypeFinal   ExamType = "FINAL"
)

// ApprovalStatus is the review state of one registration row
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Course names stored for whole-sitting registrations
const (
	CourseAllMidterms = "ALL_MIDTERMS"
	CourseAllFinals   = "ALL_FINALS"
)

// normalizeKey folds "all-midterm", "All Midterm" and "ALL_MIDTERM" to the same key
func normalizeKey(s string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// ParseUserType accepts the enum or its UI label ("Admin", "Dean", "HOD", "User")
func ParseUserType(s string) (UserType, bool) {
	switch t := UserType(normalizeKey(s)); t {
	case UserTypeAdmin, UserTypeDean, UserTypeHOD, UserTypeUser:
		return t, true
	}
	return "", false
}

// ParseUserStatus accepts the enum or its UI label
func ParseUserStatus(s string) (UserStatus, bool) {
	switch st := UserStatus(normalizeKey(s)); st {
	case UserStatusActive, UserStatusInactive:
		return st, true
	}
	return "", false
}

// ParseFormType accepts the enum or its UI label ("Special Exam", "Resit Exam", ...)
func ParseFormType(s string) (FormType, bool) {
	switch t := FormType(normalizeKey(s)); t {
	case FormTypeSpecialExam, FormTypeClearanceExam, FormTypeAdministrative, FormTypeResitExam, FormTypeImprovementExam:
		return t, true
	}
	return "", false
}

// ParseShift accepts FULL_TIME/PART_TIME as well as the form values fulltime/parttime
func ParseShift(s string) (Shift, bool) {
	switch normalizeKey(s) {
	case "FULL_TIME", "FULLTIME":
		return ShiftFullTime, true
	case "PART_TIME", "PARTTIME":
		return ShiftPartTime, true
	}
	return "", false
}

// ParseExamScope accepts the enum or the form values all-midterm/all-final/specific
func ParseExamScope(s string) (ExamScope, bool) {
	switch sc := ExamScope(normalizeKey(s)); sc {
	case ExamScopeAllMidterm, ExamScopeAllFinal, ExamScopeSpecific:
		return sc, true
	}
	return "", false
}

// ParseExamType accepts the enum or the form values Midterm/Final
func ParseExamType(s string) (ExamType, bool) {
	switch t := ExamType(normalizeKey(s)); t {
	case ExamTypeMidterm, ExamTypeFinal:
		return t, true
	}
	return "", false
}

// ParseApprovalStatus is case-insensitive
func ParseApprovalStatus(s string) (ApprovalStatus, bool) {
	switch st := ApprovalStatus(normalizeKey(s)); st {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return st, true
	}
	return "", false
}
