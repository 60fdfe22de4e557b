package handler

type ContextKey string

var (
	RoleCtxKey     ContextKey = "role"
	SubCtxKey      ContextKey = "sub"
	MyInfoCtx      ContextKey = "myInfo"
	ProfileInfoCtx ContextKey = "profileInfo"
	ProjectCtx     ContextKey = "project"
)
