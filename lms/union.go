package lms

import (
	"encoding/json"
	"fmt"
)

// UpdateProfileResult is either *UpdateProfile_UpdateProfile_User or
// *UpdateProfile_UpdateProfile_ProfileValidationError, told apart by __typename
type UpdateProfileResult interface {
	isUpdateProfileResult()
	GetTypename() string
}

type UpdateProfile_UpdateProfile_User struct {
	Typename string `json:"__typename"`
	UserFields
}

func (*UpdateProfile_UpdateProfile_User) isUpdateProfileResult() {}

func (v *UpdateProfile_UpdateProfile_User) GetTypename() string { return v.Typename }

type UpdateProfile_UpdateProfile_ProfileValidationError struct {
	Typename    string        `json:"__typename"`
	Message     string        `json:"message"`
	FieldErrors []*FieldError `json:"fieldErrors"`
}

func (*UpdateProfile_UpdateProfile_ProfileValidationError) isUpdateProfileResult() {}

func (v *UpdateProfile_UpdateProfile_ProfileValidationError) GetTypename() string {
	return v.Typename
}

func (v *UpdateProfile_UpdateProfile_ProfileValidationError) Error() string {
	return v.Message
}

type UpdateProfile struct {
	UpdateProfile UpdateProfileResult `json:"updateProfile"`
}

func (r *UpdateProfile) UnmarshalJSON(b []byte) error {
	var raw struct {
		UpdateProfile json.RawMessage `json:"updateProfile"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	v, err := unmarshalUpdateProfileResult(raw.UpdateProfile)
	if err != nil {
		return fmt.Errorf("unable to unmarshal UpdateProfile.UpdateProfile: %w", err)
	}
	r.UpdateProfile = v

	return nil
}

func unmarshalUpdateProfileResult(b json.RawMessage) (UpdateProfileResult, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}

	var tn struct {
		Typename string `json:"__typename"`
	}
	if err := json.Unmarshal(b, &tn); err != nil {
		return nil, err
	}

	switch tn.Typename {
	case "User":
		v := new(UpdateProfile_UpdateProfile_User)
		err := json.Unmarshal(b, v)
		return v, err
	case "ProfileValidationError":
		v := new(UpdateProfile_UpdateProfile_ProfileValidationError)
		err := json.Unmarshal(b, v)
		return v, err
	case "":
		return nil, fmt.Errorf("response was missing UpdateProfileResult.__typename")
	}

	return nil, fmt.Errorf(`unexpected concrete type for UpdateProfileResult: "%v"`, tn.Typename)
}
