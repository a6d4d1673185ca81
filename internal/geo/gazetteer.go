package geo

// Coordinates are decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type place struct {
	names []string
	at    Coordinates
}

// places lists well-known Thai locations under lower-case Latin names and
// their Thai-script names.
var places = []place{
	{[]string{"bangkok", "bkk", "กรุงเทพ", "กรุงเทพฯ", "กรุงเทพมหานคร"}, Coordinates{13.7563, 100.5018}},
	{[]string{"nonthaburi", "นนทบุรี"}, Coordinates{13.8600, 100.5140}},
	{[]string{"pathum thani", "ปทุมธานี"}, Coordinates{14.0210, 100.5250}},
	{[]string{"samut prakan", "สมุทรปราการ"}, Coordinates{13.5991, 100.5996}},
	{[]string{"chiang mai", "เชียงใหม่"}, Coordinates{18.7883, 98.9853}},
	{[]string{"chiang rai", "เชียงราย"}, Coordinates{19.9105, 99.8406}},
	{[]string{"lampang", "ลำปาง"}, Coordinates{18.2888, 99.4928}},
	{[]string{"phitsanulok", "พิษณุโลก"}, Coordinates{16.8283, 100.2729}},
	{[]string{"khon kaen", "ขอนแก่น"}, Coordinates{16.4419, 102.8350}},
	{[]string{"udon thani", "อุดรธานี"}, Coordinates{17.4138, 102.7877}},
	{[]string{"ubon ratchathani", "อุบลราชธานี"}, Coordinates{15.2384, 104.8487}},
	{[]string{"nakhon ratchasima", "korat", "นครราชสีมา"}, Coordinates{14.9799, 102.0977}},
	{[]string{"surat thani", "สุราษฎร์ธานี"}, Coordinates{9.1382, 99.3215}},
	{[]string{"nakhon si thammarat", "นครศรีธรรมราช"}, Coordinates{8.4304, 99.9631}},
	{[]string{"phuket", "ภูเก็ต"}, Coordinates{7.8804, 98.3923}},
	{[]string{"krabi", "กระบี่"}, Coordinates{8.0863, 98.9063}},
	{[]string{"hat yai", "หาดใหญ่"}, Coordinates{7.0086, 100.4747}},
	{[]string{"pattaya", "พัทยา"}, Coordinates{12.9236, 100.8825}},
	{[]string{"rayong", "ระยอง"}, Coordinates{12.6810, 101.2810}},
	{[]string{"chonburi", "ชลบุรี"}, Coordinates{13.3611, 100.9847}},
	{[]string{"ayutthaya", "อยุธยา"}, Coordinates{14.3532, 100.5684}},
	{[]string{"sukhothai", "สุโขทัย"}, Coordinates{17.0060, 99.8200}},
}

var gazetteer = buildGazetteer(places)

func buildGazetteer(ps []place) map[string]Coordinates {
	m := make(map[string]Coordinates)
	for _, p := range ps {
		for _, name := range p.names {
			m[name] = p.at
		}
	}
	return m
}
