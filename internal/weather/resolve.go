package weather

import "context"

// Resolver turns province and city display names into a station id.
// Names are compared exactly, without trimming or case folding.
type Resolver struct {
	dir StationDirectory
}

// NewResolver creates a Resolver backed by dir.
func NewResolver(dir StationDirectory) *Resolver {
	return &Resolver{dir: dir}
}

// ProvinceLookup is the outcome of the first resolution stage.
type ProvinceLookup struct {
	dir      StationDirectory
	Province Province
	Err      error
}

// CityLookup is the outcome of the second resolution stage.
type CityLookup struct {
	Province Province
	City     City
	Err      error
}

// Resolve runs both stages and returns the station id.
func (r *Resolver) Resolve(ctx context.Context, provinceName, cityName string) (string, error) {
	return r.LookupProvince(ctx, provinceName).LookupCity(ctx, cityName).StationID()
}

// LookupProvince fetches the province list and matches provinceName.
func (r *Resolver) LookupProvince(ctx context.Context, provinceName string) ProvinceLookup {
	provinces, err := r.dir.Provinces(ctx)
	if err != nil {
		return ProvinceLookup{Err: &ResolutionError{Stage: StageProvince, Name: provinceName, Err: err}}
	}
	for _, p := range provinces {
		if p.Name == provinceName {
			return ProvinceLookup{dir: r.dir, Province: p}
		}
	}
	return ProvinceLookup{Err: &ResolutionError{Stage: StageProvince, Name: provinceName, Err: ErrProvinceNotFound}}
}

// LookupCity fetches the matched province's cities and matches cityName.
// A failed province stage is passed through without a remote call.
func (p ProvinceLookup) LookupCity(ctx context.Context, cityName string) CityLookup {
	if p.Err != nil {
		return CityLookup{Province: p.Province, Err: p.Err}
	}

	cities, err := p.dir.Cities(ctx, p.Province.Code)
	if err != nil {
		return CityLookup{Province: p.Province, Err: &ResolutionError{Stage: StageCity, Name: cityName, Err: err}}
	}
	for _, c := range cities {
		if c.Name == cityName {
			return CityLookup{Province: p.Province, City: c}
		}
	}
	return CityLookup{Province: p.Province, Err: &ResolutionError{Stage: StageCity, Name: cityName, Err: ErrCityNotFound}}
}

// StationID returns the resolved id or the first stage error.
func (c CityLookup) StationID() (string, error) {
	if c.Err != nil {
		return "", c.Err
	}
	return c.City.Code, nil
}
