/*
Copyright (C) 2019-2020 Andreas T Jonsson

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

//go:generate go run ../tools/version/version.go -file current.go

package version

import (
	"fmt"
	"strconv"
	"strings"
)

type Version struct {
	Major, Minor, Patch byte
	Build               string
}

func New(major, minor, patch byte) Version {
	return Version{major, minor, patch, ""}
}

// Parse reads a "major.minor.patch[.build]" string. A build of "0" is
// treated as no build.
func Parse(s string) (Version, error) {
	parts := strings.SplitN(s, ".", 4)
	if len(parts) < 3 {
		return Version{}, fmt.Errorf("invalid version format: %s", s)
	}

	var nums [3]byte
	for i := range nums {
		n, err := strconv.ParseUint(parts[i], 10, 8)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version format: %s", s)
		}
		nums[i] = byte(n)
	}

	v := New(nums[0], nums[1], nums[2])
	if len(parts) == 4 && parts[3] != "0" {
		v.Build = parts[3]
	}
	return v, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v Version) FullString() string {
	if v.Build == "" {
		return v.String()
	}
	return fmt.Sprintf("%s-%s", v.String(), v.Build)
}

func (v Version) Compatible(ver Version) bool {
	return v.Major == ver.Major && v.Minor == ver.Minor
}
