package weather

import "fmt"

// weatherCodeText maps WMO weather interpretation codes to Thai descriptions.
var weatherCodeText = map[int]string{
	0:  "ท้องฟ้าแจ่มใส",
	1:  "มีเมฆเล็กน้อย",
	2:  "มีเมฆเป็นส่วนมาก",
	3:  "เมฆมาก",
	45: "หมอก",
	48: "หมอกน้ำแข็ง",
	51: "ฝนปรอยเบา",
	53: "ฝนปรอยปานกลาง",
	55: "ฝนปรอยหนัก",
	56: "ฝนปรอย หนาวจัด",
	57: "ฝนปรอย หนักและหนาวจัด",
	61: "ฝนเบา",
	63: "ฝนปานกลาง",
	65: "ฝนหนัก",
	66: "ฝนหนาวจัด",
	67: "ฝนหนักและหนาวจัด",
	71: "หิมะเบา (แทบไม่มีในไทย)",
	73: "หิมะปานกลาง",
	75: "หิมะหนัก",
	77: "เม็ดน้ำแข็ง",
	80: "ฝนซู่เบา",
	81: "ฝนซู่ปานกลาง",
	82: "ฝนซู่หนัก",
	85: "หิมะซู่เบา",
	86: "หิมะซู่หนัก",
	95: "พายุฝนฟ้าคะนอง",
	96: "พายุฝนฟ้าคะนอง พร้อมลูกเห็บเล็ก",
	99: "พายุฝนฟ้าคะนอง พร้อมลูกเห็บใหญ่",
}

// CodeText returns the Thai description for a WMO code. A nil code yields
// "weather code unknown"; an unmapped one yields "weather code <n>".
func CodeText(code *int) string {
	if code == nil {
		return "weather code unknown"
	}
	if text, ok := weatherCodeText[*code]; ok {
		return text
	}
	return fmt.Sprintf("weather code %d", *code)
}
