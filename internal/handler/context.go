package handler

type ContextKey string

var (
	SubCtxKey      ContextKey = "sub"
	CurrentUserCtx ContextKey = "currentUser"
	TargetUserCtx  ContextKey = "targetUser"
	NoticeCtx      ContextKey = "notice"
)
