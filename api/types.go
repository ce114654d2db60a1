package api

import (
	"fmt"
	"strconv"
)

// ClubID identifies a club. Clubs scope the collaborator list.
type ClubID int64

func (id ClubID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Set implements pflag.Value so a ClubID can be used as a flag or argument.
func (id *ClubID) Set(raw string) error {
	v, err := parseID(raw)
	if err != nil {
		return err
	}
	*id = ClubID(v)
	return nil
}

func (id *ClubID) Type() string {
	return "club id"
}

// UserID identifies a user account.
type UserID int64

func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Set implements pflag.Value so a UserID can be used as a flag or argument.
func (id *UserID) Set(raw string) error {
	v, err := parseID(raw)
	if err != nil {
		return err
	}
	*id = UserID(v)
	return nil
}

func (id *UserID) Type() string {
	return "user id"
}

func parseID(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%q is not a valid id, expected a positive number", raw)
	}
	return v, nil
}

// DataResponse is the envelope the API uses for reads.
type DataResponse[T any] struct {
	Data []T `json:"data"`
}

// SuccessResponse is returned by mutating calls that have no other result.
type SuccessResponse struct {
	Success bool `json:"success"`
}

type EmptyRequest struct{}
