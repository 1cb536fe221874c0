package domain

import "slices"

type Action string

const (
	ActionReadNotices        Action = "read_notices"
	ActionCreateNotice       Action = "create_notice"
	ActionUpdateNotice       Action = "update_notice"
	ActionDeleteNotice       Action = "delete_notice"
	ActionPublishNotice      Action = "publish_notice"
	ActionListMyNotices      Action = "list_my_notices"
	ActionListUsers          Action = "list_users"
	ActionInviteUser         Action = "invite_user"
	ActionChangeUserRole     Action = "change_user_role"
	ActionChangeUserStatus   Action = "change_user_status"
	ActionDeleteUser         Action = "delete_user"
	ActionOnboard            Action = "onboard"
	ActionCreatePresignedURL Action = "create_presigned_url"
	ActionDeleteAttachment   Action = "delete_attachment"
)

// Requirement 描述执行某个操作所需要的角色和状态
type Requirement struct {
	Roles    []Role
	Statuses []UserStatus
}

var (
	adminTier = []Role{RoleAdmin, RoleSuperAdmin}
	allRoles  = []Role{RoleStudent, RoleAdmin, RoleSuperAdmin}
)

// Policy 是整个系统唯一的授权表。
// 注意公告的修改和删除是基于角色而不是基于所有权的，
// 即任何管理员都可以修改或删除其他管理员的公告，这是一个明确的平台策略。
var Policy = map[Action]Requirement{
	ActionReadNotices:        {Roles: allRoles, Statuses: []UserStatus{StatusActive}},
	ActionCreateNotice:       {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionUpdateNotice:       {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionDeleteNotice:       {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionPublishNotice:      {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionListMyNotices:      {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionListUsers:          {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionInviteUser:         {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionChangeUserRole:     {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionChangeUserStatus:   {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionDeleteUser:         {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionOnboard:            {Roles: allRoles, Statuses: []UserStatus{StatusInvited, StatusActive}},
	ActionCreatePresignedURL: {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
	ActionDeleteAttachment:   {Roles: adminTier, Statuses: []UserStatus{StatusActive}},
}

// Allowed 判断某个角色和状态的用户是否允许执行指定操作
func Allowed(action Action, role Role, status UserStatus) bool {
	req, ok := Policy[action]
	if !ok {
		return false
	}
	return slices.Contains(req.Roles, role) && slices.Contains(req.Statuses, status)
}
