package featureflag

import (
	"context"
	"sort"

	"go-timesheet/internal/config"
)

type Name string

const (
	Reports                Name = "reports"
	AttendanceSelfService  Name = "attendance_self_service"
	StrictLeaveTransitions Name = "strict_leave_transitions"
	RejectOverlappingLeave Name = "reject_overlapping_leave"
	AutoMarkOnLeave        Name = "auto_mark_on_leave"
	LeaveEvents            Name = "leave_events"
)

// Flags is an immutable snapshot of the configured feature flags. It is built
// once at start-up and shared by reference.
type Flags struct {
	values map[Name]bool
}

func New(cfg config.FeatureConfig) *Flags {
	return &Flags{values: map[Name]bool{
		Reports:                cfg.Reports,
		AttendanceSelfService:  cfg.AttendanceSelfService,
		StrictLeaveTransitions: cfg.StrictLeaveTransitions,
		RejectOverlappingLeave: cfg.RejectOverlappingLeave,
		AutoMarkOnLeave:        cfg.AutoMarkOnLeave,
		LeaveEvents:            cfg.LeaveEvents,
	}}
}

// Enabled is safe on a nil receiver, which reports every flag as off.
func (f *Flags) Enabled(name Name) bool {
	if f == nil {
		return false
	}
	return f.values[name]
}

// List returns the names of the enabled flags in lexical order.
func (f *Flags) List() []Name {
	if f == nil {
		return nil
	}
	out := make([]Name, 0, len(f.values))
	for name, on := range f.values {
		if on {
			out = append(out, name)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type contextKey struct{}

func WithFlags(ctx context.Context, f *Flags) context.Context {
	return context.WithValue(ctx, contextKey{}, f)
}

func FromContext(ctx context.Context) *Flags {
	if f, ok := ctx.Value(contextKey{}).(*Flags); ok {
		return f
	}
	return nil
}
