package types

// Severity levels of the 64-bit alarm word.
const (
	SeverityNone     = 0
	SeverityMild     = 1
	SeverityModerate = 2
	SeveritySevere   = 3
)

// AlarmDescriptor labels one bit of the alarm word.
type AlarmDescriptor struct {
	Bit         int    `json:"bit"`
	Description string `json:"description"`
	Severity    int    `json:"severity"`
}

// AlarmCatalog returns the labeled portion of the alarm word in ascending
// bit order. Bits 0 to 40 are assigned by the protocol except bit 17.
func AlarmCatalog() []AlarmDescriptor {
	return []AlarmDescriptor{
		{0, "Cell over voltage", SeveritySevere},
		{1, "Cell under voltage", SeveritySevere},
		{2, "Charging over temperature alarm", SeverityModerate},
		{3, "Charging low temperature alarm", SeverityModerate},
		{4, "Discharging over temperature pre-alarm", SeverityModerate},
		{5, "Discharging low temperature pre-alarm", SeverityModerate},
		{6, "Discharging over current pre-alarm", SeverityModerate},
		{7, "Charging over current pre-alarm", SeverityModerate},
		{8, "Total over voltage pre-alarm", SeverityModerate},
		{9, "Total under voltage warning", SeverityModerate},
		{10, "Circuit breaker disconnected", SeverityMild},
		{11, "Balanced charging failed", SeverityMild},
		{12, "Positive battery pack voltage imbalance", SeverityMild},
		{13, "Negative battery pack voltage imbalance", SeverityMild},
		{14, "BMU communication interruption", SeveritySevere},
		{15, "Water flooding detection alarm", SeverityMild},
		{16, "Water flooding detection and protection", SeverityMild},
		{18, "Charging over temperature protection", SeveritySevere},
		{19, "Charging low temperature protection", SeveritySevere},
		{20, "Discharging over temperature protection", SeveritySevere},
		{21, "Discharging low temperature protection", SeveritySevere},
		{22, "Discharging over current protection level 1", SeveritySevere},
		{23, "Discharging over current protection level 2", SeveritySevere},
		{24, "Charging over current protection level 1", SeveritySevere},
		{25, "Charging over current protection level 2", SeveritySevere},
		{26, "Charging over current protection level 3", SeveritySevere},
		{27, "Total charging over voltage protection", SeveritySevere},
		{28, "Total charging under voltage protection", SeveritySevere},
		{29, "Charging DC contactor failure", SeveritySevere},
		{30, "Discharging DC contactor failure", SeveritySevere},
		{31, "EPO shut down", SeveritySevere},
		{32, "Fire protection", SeveritySevere},
		{33, "Parallel communication abnormality", SeverityMild},
		{34, "Parallel address conflict", SeverityMild},
		{35, "Insulation monitoring alarm", SeverityMild},
		{36, "Hydrogen protection", SeverityMild},
		{37, "Battery pack fan malfunction", SeverityMild},
		{38, "Battery pack fuse temperature too high", SeverityMild},
		{39, "CAN Hall communication interruption", SeverityMild},
		{40, "CAN Hall data failure", SeverityMild},
	}
}
