// README: Rider profile stored under users/{uid}.
package profile

type Profile struct {
	FirstName     string `json:"firstName"`
	Surname       string `json:"surname"`
	PersonalEmail string `json:"personalEmail"`
	DateOfBirth   string `json:"dateOfBirth"`
	Cellphone     string `json:"cellphone"`
	CompanyID     string `json:"companyId"`
	AccountStatus string `json:"accountStatus"`
}

// Update carries the editable fields; nil leaves a field unchanged.
// AccountStatus is managed elsewhere and cannot be changed here.
type Update struct {
	FirstName     *string `json:"firstName"`
	Surname       *string `json:"surname"`
	PersonalEmail *string `json:"personalEmail"`
	DateOfBirth   *string `json:"dateOfBirth"`
	Cellphone     *string `json:"cellphone"`
	CompanyID     *string `json:"companyId"`
}

func (u Update) fields() map[string]any {
	m := map[string]any{}
	set := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	set("firstName", u.FirstName)
	set("surname", u.Surname)
	set("personalEmail", u.PersonalEmail)
	set("dateOfBirth", u.DateOfBirth)
	set("cellphone", u.Cellphone)
	set("companyId", u.CompanyID)
	return m
}
