package file

// CreatePieceNumMap numbers pathnames in order, starting at 0.
func CreatePieceNumMap(paths []string) map[int]string {
	res := make(map[int]string, len(paths))
	for i, v := range paths {
		res[i] = v
	}
	return res
}
