package domain

// ClientCase links a client to a case worker and records which services the
// case receives.
type ClientCase struct {
	ClientID uint `gorm:"column:client_id;primaryKey" json:"client_id"`
	UserID   uint `gorm:"column:user_id;primaryKey" json:"user_id"`

	EmploymentAssistance               bool `gorm:"column:employment_assistance;default:false" json:"employment_assistance"`
	LifeStabilization                  bool `gorm:"column:life_stabilization;default:false" json:"life_stabilization"`
	RetentionServices                  bool `gorm:"column:retention_services;default:false" json:"retention_services"`
	SpecializedServices                bool `gorm:"column:specialized_services;default:false" json:"specialized_services"`
	EmploymentRelatedFinancialSupports bool `gorm:"column:employment_related_financial_supports;default:false" json:"employment_related_financial_supports"`
	EmployerFinancialSupports          bool `gorm:"column:employer_financial_supports;default:false" json:"employer_financial_supports"`
	EnhancedReferrals                  bool `gorm:"column:enhanced_referrals;default:false" json:"enhanced_referrals"`

	SuccessRate int `gorm:"column:success_rate;default:0" json:"success_rate"`

	Client *Client `gorm:"foreignKey:ClientID" json:"-"`
	User   *User   `gorm:"foreignKey:UserID" json:"-"`
}

func (ClientCase) TableName() string {
	return "client_cases"
}

// Services returns the names of the services enabled on the case, in catalog
// order.
func (c ClientCase) Services() []string {
	flags := []struct {
		name string
		on   bool
	}{
		{"employment_assistance", c.EmploymentAssistance},
		{"life_stabilization", c.LifeStabilization},
		{"retention_services", c.RetentionServices},
		{"specialized_services", c.SpecializedServices},
		{"employment_related_financial_supports", c.EmploymentRelatedFinancialSupports},
		{"employer_financial_supports", c.EmployerFinancialSupports},
		{"enhanced_referrals", c.EnhancedReferrals},
	}

	var out []string
	for _, f := range flags {
		if f.on {
			out = append(out, f.name)
		}
	}
	return out
}
