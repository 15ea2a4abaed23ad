package domain

// JobOptions holds the configured enumeration tables a job payload is checked against.
type JobOptions struct {
	Seniority   []string `json:"seniority"`
	SalaryBands []string `json:"salary_bands"`
	Categories  []string `json:"categories"`
}

func (o JobOptions) IsSeniority(v string) bool { return contains(o.Seniority, v) }
func (o JobOptions) IsSalaryBand(v string) bool { return contains(o.SalaryBands, v) }
func (o JobOptions) IsCategory(v string) bool { return contains(o.Categories, v) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
