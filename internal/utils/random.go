package utils

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"

	"github.com/ait-csi/notice-board/backend/internal/domain"
	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[mrand.Intn(len(letters))]
	}
	return string(randomPassword)
}

// GenerateRandomToken 生成邮箱验证令牌，长度为 length 个十六进制字符
func GenerateRandomToken(length int) (string, error) {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf)[:length], nil
}

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[mrand.Intn(len(commonSurnames))]
	nameLength := mrand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[mrand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateEmailLocalPartFromChineseName 将中文姓名转成拼音并附加随机数字，
// 用于生成种子用户的邮箱本地部分
func GenerateEmailLocalPartFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	localPart := ""

	for _, p := range pinyinArray {
		localPart += p
	}

	digitsLength := mrand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		localPart += string(digits[mrand.Intn(len(digits))])
	}

	return localPart
}

var seedRoles = []domain.Role{
	domain.RoleStudent,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return seedRoles[mrand.Intn(len(seedRoles))]
}

var seedBranches = []string{"COMP", "IT", "ENTC", "MECH"}

// GenerateRandomUser 生成一个已激活的随机用户（仅用于 seed）
func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	name := GenerateRandomChineseName()
	localPart := GenerateEmailLocalPartFromChineseName(name)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:         localPart + "@" + emailDomainName,
		PasswordHash:  string(passwordHash),
		Name:          name,
		Role:          GenerateRandomRole(),
		Status:        domain.StatusActive,
		EmailVerified: true,
	}

	switch user.Role {
	case domain.RoleStudent:
		user.StudentProfile = &domain.StudentProfile{
			Branch:             seedBranches[mrand.Intn(len(seedBranches))],
			RegistrationNumber: int64(mrand.Intn(90000) + 10000),
			Year:               []string{"3", "4"}[mrand.Intn(2)],
		}
	default:
		user.AdminProfile = &domain.AdminProfile{
			Designation: "Faculty Coordinator",
			Phone:       user.Phone,
		}
	}

	return user, nil
}

func GenerateRandomID(letterLength int, digitLength int) string {
	randomID := make([]rune, letterLength+digitLength)
	for i := range randomID {
		if i < letterLength {
			randomID[i] = letters[mrand.Intn(len(letters))]
		} else {
			randomID[i] = rune(digits[mrand.Intn(len(digits))])
		}
	}
	return string(randomID)
}
