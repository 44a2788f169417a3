package admission

import "errors"

var (
	ErrStayNotFound        = errors.New("no ongoing stay found for this patient")
	ErrAlreadyAdmitted     = errors.New("patient already has an ongoing stay")
	ErrRoomNotFound        = errors.New("room not found")
	ErrNoBedsAvailable     = errors.New("room has no available beds")
	ErrAlreadyDischarged   = errors.New("stay is already discharged")
	ErrDuplicateRoom       = errors.New("a room with this number already exists")
	ErrDuplicateDepartment = errors.New("a department with this name already exists")
	ErrDepartmentNotFound  = errors.New("department not found")
)
