package models

import "slices"

// UserAgent is sent with every outbound request to the listing source.
const UserAgent = "glimpse-directory/1.0 (+https://github.com/UnknownOlympus/glimpse)"

// Placeholder replaces any nested field the listing source left empty.
const Placeholder = "N/A"

type Department string

const (
	DepartmentMarketing       Department = "Marketing"
	DepartmentSales           Department = "Sales"
	DepartmentEngineering     Department = "Engineering"
	DepartmentHR              Department = "HR"
	DepartmentFinance         Department = "Finance"
	DepartmentOperations      Department = "Operations"
	DepartmentCustomerService Department = "Customer Service"
	DepartmentProduct         Department = "Product"
	DepartmentLegal           Department = "Legal"
	DepartmentDesign          Department = "Design"
)

// Departments is the closed set every employee's department belongs to.
var Departments = []Department{
	DepartmentMarketing,
	DepartmentSales,
	DepartmentEngineering,
	DepartmentHR,
	DepartmentFinance,
	DepartmentOperations,
	DepartmentCustomerService,
	DepartmentProduct,
	DepartmentLegal,
	DepartmentDesign,
}

// IsDepartment reports whether name is one of the known departments.
func IsDepartment(name string) bool {
	return slices.Contains(Departments, Department(name))
}

// Company holds the employer sub-record of an employee.
type Company struct {
	Department Department `json:"department"`
	Title      string     `json:"title"`
	Name       string     `json:"name"`
}

// Address holds the postal address of an employee.
type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Employee represents one person in the directory: fields copied from the listing source
// plus generated mock sub-data.
type Employee struct {
	ID                int               `json:"id"`
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	Email             string            `json:"email"`
	Age               int               `json:"age"`
	Image             string            `json:"image"`
	Username          string            `json:"username"`
	Phone             string            `json:"phone"`
	Company           Company           `json:"company"`
	Address           Address           `json:"address"`
	PerformanceRating int               `json:"performanceRating"`
	Bio               string            `json:"bio,omitempty"`
	YearsOfExperience *int              `json:"yearsOfExperience,omitempty"`
	Skills            []string          `json:"skills,omitempty"`
	PastPerformance   []PastPerformance `json:"pastPerformance,omitempty"`
	Projects          []Project         `json:"projects,omitempty"`
	Feedback          []Feedback        `json:"feedback,omitempty"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	default:
		return e.FirstName + " " + e.LastName
	}
}

// Clone returns a deep copy so callers cannot mutate slices owned by the store.
func (e Employee) Clone() Employee {
	out := e
	if e.YearsOfExperience != nil {
		years := *e.YearsOfExperience
		out.YearsOfExperience = &years
	}
	out.Skills = slices.Clone(e.Skills)
	out.PastPerformance = slices.Clone(e.PastPerformance)
	out.Projects = slices.Clone(e.Projects)
	out.Feedback = slices.Clone(e.Feedback)

	return out
}
