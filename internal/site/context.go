package site

// Context is the loaded, read-only view of the three datasets. A new Context
// is built for every successful load; existing ones are never modified.
type Context struct {
	Config   SiteConfig
	Openings OpeningsData
	Content  ContentData

	buckets Buckets
}

func NewContext(cfg SiteConfig, openings OpeningsData, content ContentData, buckets Buckets) (*Context, error) {
	if err := buckets.Validate(); err != nil {
		return nil, err
	}
	return &Context{
		Config:   cfg,
		Openings: openings,
		Content:  content,
		buckets:  buckets,
	}, nil
}

// Resolution is the per-program openings found for one location.
// Found is false when the key has no bucket or openings has no such bucket.
// A present but empty bucket is found with no openings.
type Resolution struct {
	Key      string
	Bucket   string
	Openings map[string]Opening
	Found    bool
}

func (c *Context) OpeningsFor(key string) Resolution {
	res := Resolution{Key: key}
	if c == nil {
		return res
	}
	bucket, ok := c.buckets.Resolve(key)
	if !ok {
		return res
	}
	res.Bucket = bucket
	ops, ok := c.Openings.Buckets[bucket]
	if !ok {
		return res
	}
	res.Openings = ops
	res.Found = true
	return res
}

// Unmapped lists configured locations that have no openings bucket.
func (c *Context) Unmapped() []string {
	if c == nil {
		return nil
	}
	var out []string
	c.Config.Locations.Each(func(key string, _ Location) {
		if _, ok := c.buckets.Resolve(key); !ok {
			out = append(out, key)
		}
	})
	return out
}
