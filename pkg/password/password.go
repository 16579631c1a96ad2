package password

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost 固定工作因子，在暴力破解成本与登录延迟之间取平衡
const bcryptCost = 12

// maxPasswordBytes bcrypt 只使用口令的前 72 字节
const maxPasswordBytes = 72

// ErrHashTooLong 理论上不可达：截断后仍超出 bcrypt 长度限制
var ErrHashTooLong = errors.New("口令截断后仍超出 bcrypt 长度限制")

// Truncate 将口令按 UTF-8 编码截断到前 72 字节
// 截断点落在多字节字符中间时，丢弃不完整的尾部字节而不是报错。
// 哈希与校验必须使用完全相同的截断规则，否则超长口令将无法再通过校验。
func Truncate(password string) []byte {
	b := []byte(password)
	if len(b) <= maxPasswordBytes {
		return b
	}
	b = b[:maxPasswordBytes]

	// 去掉截断产生的不完整 UTF-8 尾部序列（最多回退 3 字节）
	for len(b) > 0 {
		r, size := utf8.DecodeLastRune(b)
		if r != utf8.RuneError || size != 1 {
			break
		}
		b = b[:len(b)-1]
	}
	return b
}

// Hash 生成口令的 bcrypt 哈希
// 输出为自描述格式（算法标识、cost、盐、摘要），无需单独保存盐。
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(Truncate(password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrHashTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// Verify 校验口令与存储的哈希是否匹配
// 返回值永远以布尔为准：哈希格式损坏、算法不匹配等内部错误一律视为
// 校验失败，具体原因通过第二个返回值交给调用方记录日志，不向外传播。
func Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), Truncate(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
