package discovery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mtimer/mtimer-go/pkg/version"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeTXT creates the TXT records for info.
func EncodeTXT(info *ServiceInfo) TXTRecordMap {
	return TXTRecordMap{
		TXTKeyVersion: APIVersion,
		TXTKeyPath:    APIPath,
		TXTKeyTimers:  strconv.Itoa(info.Timers),
	}
}

// DecodeTXT parses TXT records into a Service. Only ver is required.
func DecodeTXT(txt TXTRecordMap) (*Service, error) {
	ver, ok := txt[TXTKeyVersion]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}
	if _, err := version.Parse(ver); err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXT, TXTKeyVersion, ver)
	}

	svc := &Service{
		Version: ver,
		Path:    txt[TXTKeyPath],
	}
	if svc.Path == "" {
		svc.Path = APIPath
	}

	if n, ok := txt[TXTKeyTimers]; ok {
		count, err := strconv.Atoi(n)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXT, TXTKeyTimers, n)
		}
		svc.Timers = count
	}
	return svc, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to "key=value" strings sorted by key.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
