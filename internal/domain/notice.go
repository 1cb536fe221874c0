package domain

import "time"

// 公告标题允许的最大长度
const NoticeTitleMaxLength = 80

type Notice struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	Tags        []string     `json:"tags"`
	IsPublished bool         `json:"isPublished"`
	AdminID     int64        `json:"-"`
	AdminEmail  string       `json:"adminEmail"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Version     int32        `json:"-"`
}

// Attachment 的 FileID 与对象存储中的 key 一一对应
type Attachment struct {
	ID          int64  `json:"id"`
	NoticeID    int64  `json:"-"`
	FileID      string `json:"fileID"`
	Filename    string `json:"filename"`
	Filetype    string `json:"filetype"`
	DownloadURL string `json:"downloadURL,omitempty"`
}
