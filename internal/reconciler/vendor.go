package reconciler

import (
	"context"
	"fmt"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/controlplane"
	"github.com/imamik/statehub/internal/location"
)

type locationFunc func(ctx context.Context, api controlplane.API, state v1.StateName, region string) (*v1.StateLocation, error)

// vendorOps binds the location operations of one vendor.
type vendorOps struct {
	add    locationFunc
	get    locationFunc
	remove locationFunc
}

var vendors = map[location.Vendor]vendorOps{
	location.VendorAWS: {
		add: func(ctx context.Context, api controlplane.API, s v1.StateName, r string) (*v1.StateLocation, error) {
			return api.AddAWSLocation(ctx, s, r)
		},
		get: func(ctx context.Context, api controlplane.API, s v1.StateName, r string) (*v1.StateLocation, error) {
			return api.GetAWSLocation(ctx, s, r)
		},
		remove: func(ctx context.Context, api controlplane.API, s v1.StateName, r string) (*v1.StateLocation, error) {
			return api.DeleteAWSLocation(ctx, s, r)
		},
	},
	location.VendorAzure: {
		add: func(ctx context.Context, api controlplane.API, s v1.StateName, r string) (*v1.StateLocation, error) {
			return api.AddAzureLocation(ctx, s, r)
		},
		get: func(ctx context.Context, api controlplane.API, s v1.StateName, r string) (*v1.StateLocation, error) {
			return api.GetAzureLocation(ctx, s, r)
		},
		remove: func(ctx context.Context, api controlplane.API, s v1.StateName, r string) (*v1.StateLocation, error) {
			return api.DeleteAzureLocation(ctx, s, r)
		},
	},
}

func opsFor(l location.Location) (vendorOps, error) {
	ops, ok := vendors[l.Vendor]
	if !ok {
		return vendorOps{}, fmt.Errorf("unsupported vendor %q", l.Vendor)
	}
	return ops, nil
}
