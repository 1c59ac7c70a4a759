package schoolpass

// RuntimeConfig is the public bootstrap document served by SchoolPass.
type RuntimeConfig struct {
	DefaultHomeBaseURL string `json:"defaultHomeBaseUrl"`
	AuthToken          string `json:"authToken"`
}

// UserInfo is a home base lookup result for a login.
type UserInfo struct {
	Login            string            `json:"login,omitempty"`
	UserType         string            `json:"userType,omitempty"`
	SchoolConnection *SchoolConnection `json:"schoolConnection,omitempty"`
}

// SchoolConnection tells where a school's API lives.
type SchoolConnection struct {
	AppCode                   int    `json:"appCode"`
	SchoolURL                 string `json:"schoolUrl,omitempty"`
	APIURL                    string `json:"apiUrl"`
	SchoolName                string `json:"schoolName,omitempty"`
	EmergencyManagementAPIURL string `json:"emergencyManagementApiUrl,omitempty"`
	DistrictID                any    `json:"distrctId,omitempty"`
}

// User identifies the authenticating account inside a school.
type User struct {
	InternalID int `json:"internalId"`
	UserType   int `json:"userType"`
}

// Bus is a bus route as returned by the Bus endpoint. Destination is the
// value manifest rows reference as their route.
type Bus struct {
	ID          int          `json:"id"`
	Number      string       `json:"number"`
	Driver      string       `json:"driver"`
	Destination string       `json:"destination"`
	PickupOrder string       `json:"pickupOrder"`
	Btag        string       `json:"btag"`
	Btag2       string       `json:"btag2"`
	Capacity    int          `json:"capacity"`
	Departure   bool         `json:"departure"`
	SitePrefix  string       `json:"sitePrefix"`
	BusBoarding *BusBoarding `json:"busBoarding,omitempty"`
}

// BusBoarding is today's boarding state of a bus.
type BusBoarding struct {
	ID                     int    `json:"id"`
	BusID                  int    `json:"busId"`
	Date                   string `json:"date"`
	Status                 any    `json:"status"`
	StatusBoardingDatetime any    `json:"statusBoardingDatetime"`
	StatusBoardingUserID   any    `json:"statusBoardingUserId"`
	StatusDepartedDatetime any    `json:"statusDepartedDatetime"`
	StatusDepartedUserID   any    `json:"statusDepartedUserId"`
	BusTypeID              int    `json:"busTypeId"`
}

// ManifestReportItem is one student row of the Bus Boarding Manifest report.
type ManifestReportItem struct {
	SitePrefix            string `json:"sitePrefix"`
	SiteName              string `json:"siteName"`
	BusRoute              string `json:"busRoute"`
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	GradeName             string `json:"gradeName"`
	BoardingDate          string `json:"boardingDate"`
	DismissalLocationName string `json:"dismissalLocationName"`
	BusStopName           string `json:"busStopName"`
	StudentTypeDefault    string `json:"studentTypeDefault"`
	BusPassName           any    `json:"busPassName"`
	BoardedTime           any    `json:"boardedTime"`
	ChangeSeries          string `json:"changeSeries"`
	Notes                 string `json:"notes"`
	ModifiedBy            string `json:"modifiedBy"`
	ModifiedDate          string `json:"modifiedDate"`
	ExternalID            string `json:"externalID"`
}

// ReportOptions is the request body of the Bus Boarding Manifest report.
// Empty strings are sent as-is; the endpoint expects every field.
type ReportOptions struct {
	Sites          string `json:"sites"`
	BusType        string `json:"busType"`
	FromDate       string `json:"fromDate"`
	ToDate         string `json:"toDate"`
	ReportGrouping string `json:"reportGrouping"`
	Buses          string `json:"buses"`
	Grades         string `json:"grades"`
	BusPasses      string `json:"busPasses"`
	SortOrder      string `json:"sortOrder"`
	ReportType     int    `json:"reportType"`
}

type authRequest struct {
	SchoolCode int    `json:"schoolCode"`
	UserType   int    `json:"userType"`
	UserID     int    `json:"userId"`
	Password   string `json:"password"`
}
