package admission

import "context"

type Repository interface {
	// Admit creates the stay and decrements the room's bed counter in one
	// transaction. Returns ErrAlreadyAdmitted if the patient has an
	// ongoing stay, ErrNoBedsAvailable if a room is requested and full.
	// On any error no row is written and no counter moves.
	Admit(ctx context.Context, stay *Stay) error

	// Discharge marks the patient's ongoing stay discharged and restores
	// the room's bed counter, atomically. Returns ErrStayNotFound when
	// the patient has no ongoing stay.
	Discharge(ctx context.Context, patientID uint) (*Stay, error)

	// GetOngoingByPatient returns the patient's ongoing stay or
	// ErrStayNotFound.
	GetOngoingByPatient(ctx context.Context, patientID uint) (*Stay, error)

	// ListOngoing returns all ongoing stays, oldest admission first.
	ListOngoing(ctx context.Context) ([]*Stay, error)

	// CountOngoingLongerThan counts ongoing stays older than the given
	// number of days.
	CountOngoingLongerThan(ctx context.Context, days int) (int64, error)

	// Rooms.
	CreateRoom(ctx context.Context, r *Room) error
	GetRoomByNumber(ctx context.Context, number string) (*Room, error)
	ListRooms(ctx context.Context) ([]*Room, error)

	// Departments.
	CreateDepartment(ctx context.Context, d *Department) error
	ListDepartments(ctx context.Context) ([]*Department, error)
}
