package math

// GeometryGenerateNormals computes flat face normals for an indexed triangle
// list. Vertices shared between faces take the normal of the last face that
// references them. Trailing indices that do not form a full triangle and
// indices outside positions are ignored.
func GeometryGenerateNormals(positions []Vec3, indices []uint32) []Vec3 {
	normals := make([]Vec3, len(positions))
	count := uint32(len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]
		if i0 >= count || i1 >= count || i2 >= count {
			continue
		}

		edge1 := positions[i1].Sub(positions[i0])
		edge2 := positions[i2].Sub(positions[i0])

		c := edge1.Cross(edge2)
		normal := c.Normalized()

		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		normals[i0] = normal
		normals[i1] = normal
		normals[i2] = normal
	}
	return normals
}

// GeometryExtents returns the axis-aligned bounds of positions. An empty
// slice yields zero extents.
func GeometryExtents(positions []Vec3) Extents3D {
	if len(positions) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		ext.Min.X = min(ext.Min.X, p.X)
		ext.Min.Y = min(ext.Min.Y, p.Y)
		ext.Min.Z = min(ext.Min.Z, p.Z)
		ext.Max.X = max(ext.Max.X, p.X)
		ext.Max.Y = max(ext.Max.Y, p.Y)
		ext.Max.Z = max(ext.Max.Z, p.Z)
	}
	return ext
}
