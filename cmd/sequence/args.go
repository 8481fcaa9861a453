package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	coresequence "edumaster/internal/core/sequence"
)

type args struct {
	key      coresequence.PartitionKey
	value    int64
	hasValue bool
}

func parseArgs(argv []string) (args, error) {
	var a args
	var scheme, prefix, subtype, year string

	for i := 0; i < len(argv); i++ {
		if i+1 >= len(argv) {
			return a, fmt.Errorf("missing value for %s", argv[i])
		}
		val := argv[i+1]
		switch argv[i] {
		case "--scheme":
			scheme = strings.ToLower(val)
		case "--prefix":
			prefix = strings.ToUpper(val)
		case "--year":
			year = val
		case "--subtype":
			subtype = strings.ToUpper(val)
		case "--value":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return a, fmt.Errorf("invalid --value %q", val)
			}
			a.value, a.hasValue = n, true
		default:
			return a, fmt.Errorf("unknown option %s", argv[i])
		}
		i++
	}

	y, err := strconv.Atoi(year)
	if err != nil || y < 1 {
		return a, fmt.Errorf("--year must be a positive number")
	}
	if subtype == "" {
		return a, fmt.Errorf("--subtype is required")
	}
	start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)

	switch coresequence.Scheme(scheme) {
	case coresequence.SchemeStudent:
		if prefix == "" {
			return a, fmt.Errorf("--prefix is required for students")
		}
		a.key = coresequence.StudentKey(prefix, start, subtype)
	case coresequence.SchemeEmployee:
		a.key = coresequence.EmployeeKey(subtype, start)
	default:
		return a, fmt.Errorf("--scheme must be student or employee")
	}
	return a, nil
}
