package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/antounmoubarak/fsdr-precheck/internal/model"
)

// regionPattern matches canonical region identifiers such as "us-ashburn-1".
var regionPattern = regexp.MustCompile(`^[a-z0-9]{2}-[a-z0-9]+-\d$`)

// regionKeys maps the three-letter region keys that appear in OCIDs to region identifiers.
var regionKeys = map[string]string{
	"iad": "us-ashburn-1",
	"phx": "us-phoenix-1",
	"sjc": "us-sanjose-1",
	"ord": "us-chicago-1",
	"yyz": "ca-toronto-1",
	"yul": "ca-montreal-1",
	"qro": "mx-queretaro-1",
	"mty": "mx-monterrey-1",
	"gru": "sa-saopaulo-1",
	"vcp": "sa-vinhedo-1",
	"scl": "sa-santiago-1",
	"bog": "sa-bogota-1",
	"vap": "sa-valparaiso-1",
	"lhr": "uk-london-1",
	"cwl": "uk-cardiff-1",
	"fra": "eu-frankfurt-1",
	"ams": "eu-amsterdam-1",
	"zrh": "eu-zurich-1",
	"mad": "eu-madrid-1",
	"cdg": "eu-paris-1",
	"lin": "eu-milan-1",
	"arn": "eu-stockholm-1",
	"mrs": "eu-marseille-1",
	"mtz": "il-jerusalem-1",
	"jed": "me-jeddah-1",
	"dxb": "me-dubai-1",
	"auh": "me-abudhabi-1",
	"jnb": "af-johannesburg-1",
	"bom": "ap-mumbai-1",
	"hyd": "ap-hyderabad-1",
	"nrt": "ap-tokyo-1",
	"kix": "ap-osaka-1",
	"icn": "ap-seoul-1",
	"yny": "ap-chuncheon-1",
	"sin": "ap-singapore-1",
	"syd": "ap-sydney-1",
	"mel": "ap-melbourne-1",
}

// NormalizeRegion turns a region key or identifier into a canonical region identifier.
// Canonical identifiers pass through unchanged; three-letter keys are looked up
// case-insensitively.
func NormalizeRegion(region string) (string, error) {
	if regionPattern.MatchString(region) {
		return region, nil
	}
	if name, ok := regionKeys[strings.ToLower(region)]; ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", model.ErrUnknownRegion, region)
}
