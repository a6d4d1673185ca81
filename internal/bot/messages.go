package bot

const UsageText = "คำสั่งที่ใช้ได้:\n" +
	"• /start — เริ่มต้นการใช้งานบอท\n" +
	"• /help — ดูวิธีใช้งานและคำสั่งทั้งหมด\n" +
	"• /summary — สรุปรวมทุกไฟล์ที่เคยประมวลผล\n" +
	"• /clear — ล้างไฟล์/บันทึกที่เคยประมวลผล\n" +
	"• /weather [สถานที่] — สรุปสภาพอากาศวันนี้ (ค่าเริ่มต้น Bangkok)\n\n" +
	"หมายเหตุ: ส่ง ‘รูปภาพ’ เพื่อให้บอทวิเคราะห์และตอบสรุปกลับค่ะ 📷"

const WelcomeText = "สวัสดีค่ะ ยินดีต้อนรับ 🤖✨\n" +
	"ส่งรูปมาได้เลย หนูจะวิเคราะห์ด้วย LLM แล้วส่งสรุปกลับให้ค่ะ\n\n" +
	UsageText

const (
	freeTextReply = "โปรดส่งข้อความที่กำหนดแล้วเท่านั้นค่ะ เช่น /summary /clear หรือส่ง ‘รูปภาพ’ เพื่อให้บอทวิเคราะห์ค่ะ\n\n" + UsageText

	processingText      = "<b>กำลังประมวลผล...</b>"
	summaryHeader       = "<b>สรุปรวมทั้งหมด</b>\n"
	clearingText        = "<b>กำลังล้างไฟล์...</b>"
	clearedText         = "<b>ล้างไฟล์เรียบร้อยค่ะ ✅</b>"
	fetchingWeatherText = "<b>กำลังขอข้อมูล...</b>"
	weatherHeader       = "<b>ข้อมูลอากาศ</b>\n"
	analyzingPhotoText  = "รอสักครู่ค่ะ หนูกำลังวิเคราะห์รูป"
	photoCaptionFormat  = "<b>ผลวิเคราะห์</b>\n%s\n\n<b>ไฟล์</b>: <code>%s</code>"
	errorFormat         = "มีข้อผิดพลาด: <code>%s</code> ค่ะ"
	photoErrorFormat    = "โอ๊ะ มีข้อผิดพลาด: <code>%s</code> ค่ะ"
	locationNotFound    = "หา location ไม่เจอ: %s"
	emptyAnswerText     = "ขออภัยค่ะ ตอนนี้ยังสรุปผลไม่ได้ กรุณาลองใหม่อีกครั้งนะคะ"
)
