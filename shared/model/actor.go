package model

import (
	"context"
	"restopos/shared/constant"
)

// Actor is the authenticated staff member behind a request.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ActorFromContext reads the principal stored by the auth middleware. Requests without
// one are attributed to the system.
func ActorFromContext(ctx context.Context) Actor {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	name, _ := ctx.Value(constant.ContextKeyUserName).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if id == "" {
		return Actor{ID: constant.ContextSystem, Name: constant.ContextSystem}
	}

	if name == "" {
		name = id
	}

	return Actor{ID: id, Name: name, Role: role}
}

// WithActor returns a context carrying the actor, as the auth middleware stores it.
func WithActor(ctx context.Context, actor Actor) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, actor.ID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserName, actor.Name)

	return context.WithValue(ctx, constant.ContextKeyUserRole, actor.Role)
}

// HasRole reports whether the actor holds one of roles.
func (a Actor) HasRole(roles ...string) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}

	return false
}
