package location

// Vendor identifies a cloud vendor.
type Vendor string

// Supported vendors.
const (
	VendorAWS   Vendor = "aws"
	VendorAzure Vendor = "azure"
)

// Vendors lists all supported vendors in display order.
func Vendors() []Vendor {
	return []Vendor{VendorAWS, VendorAzure}
}

// Prefix returns the qualifier used in the qualified location form.
func (v Vendor) Prefix() string {
	return string(v) + ":"
}

// Title returns the human readable vendor name.
func (v Vendor) Title() string {
	switch v {
	case VendorAWS:
		return "AWS"
	case VendorAzure:
		return "Azure"
	default:
		return string(v)
	}
}

var awsRegions = []string{
	"ap-northeast-1",
	"ap-northeast-2",
	"ap-south-1",
	"ap-southeast-1",
	"ap-southeast-2",
	"ca-central-1",
	"eu-central-1",
	"eu-north-1",
	"eu-west-1",
	"eu-west-2",
	"eu-west-3",
	"sa-east-1",
	"us-east-1",
	"us-east-2",
	"us-west-1",
	"us-west-2",
}

var azureRegions = []string{
	"centralus",
	"eastus",
	"eastus2",
	"francecentral",
	"japaneast",
	"northeurope",
	"southeastasia",
	"uksouth",
	"westeurope",
	"westus2",
}

// Regions returns the regions the control plane can provision in for v.
func (v Vendor) Regions() []string {
	switch v {
	case VendorAWS:
		return append([]string(nil), awsRegions...)
	case VendorAzure:
		return append([]string(nil), azureRegions...)
	default:
		return nil
	}
}

// All returns every supported location in vendor display order.
func All() []Location {
	all := make([]Location, 0, len(awsRegions)+len(azureRegions))
	for _, v := range Vendors() {
		for _, r := range v.Regions() {
			all = append(all, Location{Vendor: v, Region: r})
		}
	}
	return all
}
