package vision

import (
	"context"
)

// Role values understood by every ChatCompleter backend.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// SystemPrompt instructs the model how to describe a single image.
const SystemPrompt = "คุณเป็นผู้ช่วยวิเคราะห์รูปภาพเป็นภาษาไทยแบบมืออาชีพ " +
	"เป้าหมาย: สรุปสั้น กระชับ ชัด (2–3 ประโยค) " +
	"จากนั้น bullet รายการวัตถุ/เอนทิตีสำคัญ และระบุ 'ข้อกังวลคุณภาพ' หากพบ\n" +
	"ข้อกำหนดการเขียน: ภาษาไทย สุภาพ ไม่ฟุ้ง ใช้ถ้อยคำกะทัดรัด\n" +
	"ห้ามแต่งเติมเกินข้อมูลที่เห็นจากภาพ"

// ImagePrompt is the user turn sent alongside the image.
const ImagePrompt = "ช่วยวิเคราะห์รูปนี้ให้หน่อยค่ะ"

// ChatCompleter is a stateless, single-completion chat backend.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Message is one role-tagged chat turn. Its content is an ordered mix of
// text and inline image parts.
type Message struct {
	Role  string
	Parts []Part
}

// Part holds either Text or ImageURL (an inline data URL), never both.
type Part struct {
	Text     string
	ImageURL string
}

func TextMessage(role, text string) Message {
	return Message{Role: role, Parts: []Part{{Text: text}}}
}
