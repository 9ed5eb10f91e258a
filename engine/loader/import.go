package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

var defaultMeshColor = mgl32.Vec3{0.8, 0.8, 0.8}

// importer converts a parsed document into the engine's model types.
type importer struct {
	doc     *document
	parents []int
	joints  map[int]int // node index -> bone index
}

func importDocument(doc *document, name string) (*model.ImportedModel, error) {
	im := &importer{doc: doc, parents: make([]int, len(doc.Nodes)), joints: map[int]int{}}
	for i := range im.parents {
		im.parents[i] = -1
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(im.parents) {
				im.parents[c] = i
			}
		}
	}

	out := &model.ImportedModel{Name: name}

	skeleton, err := im.skeleton()
	if err != nil {
		return nil, fmt.Errorf("skeleton: %w", err)
	}
	out.Skeleton = skeleton

	for i := range doc.Nodes {
		meshes, err := im.meshes(i)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		out.Meshes = append(out.Meshes, meshes...)
	}

	for i := range doc.Animations {
		clip, err := im.animation(i)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		out.Animations = append(out.Animations, clip)
	}
	return out, nil
}

func (im *importer) nodeName(i int) string {
	if n := im.doc.Nodes[i].Name; n != "" {
		return n
	}
	return fmt.Sprintf("node_%d", i)
}

func (im *importer) restTransform(i int) model.Transform {
	n := im.doc.Nodes[i]
	t := model.IdentityTransform()
	if n.Translation != nil {
		t.Translation = mgl32.Vec3(*n.Translation)
	}
	if n.Rotation != nil {
		r := *n.Rotation
		t.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	if n.Scale != nil {
		t.Scale = mgl32.Vec3(*n.Scale)
	}
	return t
}

func (im *importer) worldMatrix(i int) mgl32.Mat4 {
	m := im.restTransform(i).Matrix()
	for p := im.parents[i]; p >= 0; p = im.parents[p] {
		m = im.restTransform(p).Matrix().Mul4(m)
	}
	return m
}

// skeleton builds bones from the first skin. Files in this project carry one rig each.
func (im *importer) skeleton() (*model.Skeleton, error) {
	if len(im.doc.Skins) == 0 {
		return nil, nil
	}
	skin := im.doc.Skins[0]

	var inverse []float32
	if skin.InverseBindMatrices != nil {
		data, width, err := im.doc.readFloats(*skin.InverseBindMatrices)
		if err != nil {
			return nil, err
		}
		if width != 16 || len(data) < 16*len(skin.Joints) {
			return nil, fmt.Errorf("inverse bind matrices do not match %d joints", len(skin.Joints))
		}
		inverse = data
	}

	for b, node := range skin.Joints {
		im.joints[node] = b
	}

	bones := make([]model.Bone, len(skin.Joints))
	rootAncestor := -1
	for b, node := range skin.Joints {
		bone := model.Bone{
			Name:        im.nodeName(node),
			Parent:      -1,
			InverseBind: mgl32.Ident4(),
			Rest:        im.restTransform(node),
		}
		for p := im.parents[node]; p >= 0; p = im.parents[p] {
			if jb, ok := im.joints[p]; ok {
				bone.Parent = jb
				break
			}
		}
		if bone.Parent < 0 && rootAncestor < 0 {
			rootAncestor = im.parents[node]
		}
		if inverse != nil {
			copy(bone.InverseBind[:], inverse[b*16:(b+1)*16])
		}
		bones[b] = bone
	}

	sk := model.NewSkeleton(bones)
	if rootAncestor >= 0 {
		sk.Root = im.worldMatrix(rootAncestor)
	}
	return sk, nil
}

func (im *importer) meshes(nodeIndex int) ([]model.ImportedMesh, error) {
	node := im.doc.Nodes[nodeIndex]
	if node.Mesh == nil {
		return nil, nil
	}
	gm := im.doc.Meshes[*node.Mesh]
	name := gm.Name
	if name == "" {
		name = im.nodeName(nodeIndex)
	}
	skinned := node.Skin != nil && len(im.joints) > 0

	var bake mgl32.Mat4
	if !skinned {
		bake = im.worldMatrix(nodeIndex)
	}

	var out []model.ImportedMesh
	for p, prim := range gm.Primitives {
		if prim.Mode != nil && *prim.Mode != modeTriangles {
			continue
		}
		mesh, err := im.primitive(gm, prim, skinned)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", name, p, err)
		}
		mesh.Name = name
		if !skinned {
			bakeMesh(&mesh, bake)
		}
		computeBounds(&mesh)
		out = append(out, mesh)
	}
	return out, nil
}

func (im *importer) primitive(gm gltfMesh, prim gltfPrimitive, skinned bool) (model.ImportedMesh, error) {
	mesh := model.ImportedMesh{Skinned: skinned, Color: defaultMeshColor}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return mesh, fmt.Errorf("no POSITION attribute")
	}
	positions, _, err := im.doc.readFloats(posIdx)
	if err != nil {
		return mesh, err
	}
	count := len(positions) / 3
	mesh.Vertices = make([]model.Vertex, count)
	for v := range mesh.Vertices {
		mesh.Vertices[v].Position = mgl32.Vec3{positions[v*3], positions[v*3+1], positions[v*3+2]}
		mesh.Vertices[v].Normal = mgl32.Vec3{0, 1, 0}
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _, err := im.doc.readFloats(idx)
		if err != nil {
			return mesh, err
		}
		for v := 0; v < count && v*3+2 < len(normals); v++ {
			mesh.Vertices[v].Normal = mgl32.Vec3{normals[v*3], normals[v*3+1], normals[v*3+2]}
		}
	}

	if skinned {
		if err := im.skinAttributes(prim, mesh.Vertices); err != nil {
			return mesh, err
		}
	}

	if prim.Indices != nil {
		idx, _, err := im.doc.readUints(*prim.Indices)
		if err != nil {
			return mesh, err
		}
		mesh.Indices = idx
	} else {
		mesh.Indices = make([]uint32, count)
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}

	for t, target := range prim.Targets {
		mt := model.MorphTarget{Name: fmt.Sprintf("target_%d", t)}
		if t < len(gm.Extras.TargetNames) {
			mt.Name = gm.Extras.TargetNames[t]
		}
		if idx, ok := target["POSITION"]; ok {
			if mt.PositionDeltas, err = im.readVec3s(idx, count); err != nil {
				return mesh, err
			}
		}
		if idx, ok := target["NORMAL"]; ok {
			if mt.NormalDeltas, err = im.readVec3s(idx, count); err != nil {
				return mesh, err
			}
		}
		mesh.MorphTargets = append(mesh.MorphTargets, mt)
	}
	mesh.DefaultWeights = make([]float32, len(mesh.MorphTargets))
	copy(mesh.DefaultWeights, gm.Weights)

	if prim.Material != nil && *prim.Material < len(im.doc.Materials) {
		if pbr := im.doc.Materials[*prim.Material].PbrMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
			c := pbr.BaseColorFactor
			mesh.Color = mgl32.Vec3{c[0], c[1], c[2]}
		}
	}
	return mesh, nil
}

func (im *importer) skinAttributes(prim gltfPrimitive, verts []model.Vertex) error {
	jIdx, hasJ := prim.Attributes["JOINTS_0"]
	wIdx, hasW := prim.Attributes["WEIGHTS_0"]
	if !hasJ || !hasW {
		return nil
	}
	joints, _, err := im.doc.readUints(jIdx)
	if err != nil {
		return err
	}
	weights, _, err := im.doc.readFloats(wIdx)
	if err != nil {
		return err
	}
	for v := range verts {
		if v*4+3 >= len(joints) || v*4+3 >= len(weights) {
			break
		}
		var sum float32
		for k := 0; k < 4; k++ {
			verts[v].Joints[k] = joints[v*4+k]
			verts[v].Weights[k] = weights[v*4+k]
			sum += weights[v*4+k]
		}
		if sum > 0 && sum != 1 {
			for k := range verts[v].Weights {
				verts[v].Weights[k] /= sum
			}
		}
	}
	return nil
}

func (im *importer) readVec3s(index, count int) ([]mgl32.Vec3, error) {
	data, width, err := im.doc.readFloats(index)
	if err != nil {
		return nil, err
	}
	if width != 3 || len(data) < count*3 {
		return nil, fmt.Errorf("accessor %d: expected %d VEC3 values", index, count)
	}
	out := make([]mgl32.Vec3, count)
	for i := range out {
		out[i] = mgl32.Vec3{data[i*3], data[i*3+1], data[i*3+2]}
	}
	return out, nil
}

func (im *importer) animation(index int) (*model.AnimationClip, error) {
	ga := im.doc.Animations[index]
	clip := &model.AnimationClip{Name: ga.Name}
	if clip.Name == "" {
		clip.Name = fmt.Sprintf("animation_%d", index)
	}

	channels := map[string]*model.AnimationChannel{}
	var order []string

	for _, ch := range ga.Channels {
		if ch.Target.Node == nil || ch.Sampler < 0 || ch.Sampler >= len(ga.Samplers) {
			continue
		}
		node := *ch.Target.Node
		sampler := ga.Samplers[ch.Sampler]

		times, _, err := im.doc.readFloats(sampler.Input)
		if err != nil {
			return nil, err
		}
		values, width, err := im.doc.readFloats(sampler.Output)
		if err != nil {
			return nil, err
		}
		if len(times) > 0 {
			clip.Duration = max(clip.Duration, times[len(times)-1])
		}
		cubic := sampler.Interpolation == "CUBICSPLINE"

		if ch.Target.Path == pathWeights {
			mc, err := im.morphChannel(node, times, values, cubic)
			if err != nil {
				return nil, err
			}
			if mc != nil {
				clip.MorphChannels = append(clip.MorphChannels, *mc)
			}
			continue
		}

		bone := im.nodeName(node)
		target, ok := channels[bone]
		if !ok {
			target = &model.AnimationChannel{Bone: bone}
			channels[bone] = target
			order = append(order, bone)
		}

		value := func(k int) []float32 {
			if cubic {
				// in-tangent, value, out-tangent
				return values[(k*3+1)*width : (k*3+2)*width]
			}
			return values[k*width : (k+1)*width]
		}
		keys := len(times)
		if need := keys * width; (cubic && len(values) < need*3) || len(values) < need {
			return nil, fmt.Errorf("channel on %q has %d values for %d keys", bone, len(values), keys)
		}

		switch ch.Target.Path {
		case pathTranslation, pathScale:
			if width != 3 {
				continue
			}
			vk := make([]model.VectorKeyframe, keys)
			for k := range vk {
				v := value(k)
				vk[k] = model.VectorKeyframe{Time: times[k], Value: mgl32.Vec3{v[0], v[1], v[2]}}
			}
			if ch.Target.Path == pathTranslation {
				target.PositionKeys = vk
			} else {
				target.ScaleKeys = vk
			}
		case pathRotation:
			if width != 4 {
				continue
			}
			qk := make([]model.QuaternionKeyframe, keys)
			for k := range qk {
				v := value(k)
				qk[k] = model.QuaternionKeyframe{Time: times[k], Value: mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}.Normalize()}
			}
			target.RotationKeys = qk
		}
	}

	for _, bone := range order {
		clip.Channels = append(clip.Channels, *channels[bone])
	}
	return clip, nil
}

func (im *importer) morphChannel(node int, times, values []float32, cubic bool) (*model.MorphChannel, error) {
	n := im.doc.Nodes[node]
	if n.Mesh == nil || len(times) == 0 {
		return nil, nil
	}
	gm := im.doc.Meshes[*n.Mesh]
	name := gm.Name
	if name == "" {
		name = im.nodeName(node)
	}

	stride := len(values) / len(times)
	targets := stride
	offset := 0
	if cubic {
		targets = stride / 3
		offset = targets
	}
	if targets == 0 {
		return nil, fmt.Errorf("weights channel on %q has no values", name)
	}

	mc := &model.MorphChannel{Mesh: name, Times: times, Weights: make([][]float32, len(times))}
	for k := range times {
		start := k*stride + offset
		w := make([]float32, targets)
		copy(w, values[start:start+targets])
		mc.Weights[k] = w
	}
	return mc, nil
}

func bakeMesh(mesh *model.ImportedMesh, m mgl32.Mat4) {
	normal := m.Mat3().Inv().Transpose()
	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		v.Position = mgl32.TransformCoordinate(v.Position, m)
		v.Normal = normal.Mul3x1(v.Normal).Normalize()
	}
	lin := m.Mat3()
	for t := range mesh.MorphTargets {
		for i, d := range mesh.MorphTargets[t].PositionDeltas {
			mesh.MorphTargets[t].PositionDeltas[i] = lin.Mul3x1(d)
		}
	}
}

func computeBounds(mesh *model.ImportedMesh) {
	if len(mesh.Vertices) == 0 {
		return
	}
	lo, hi := mesh.Vertices[0].Position, mesh.Vertices[0].Position
	for _, v := range mesh.Vertices[1:] {
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], v.Position[a])
			hi[a] = max(hi[a], v.Position[a])
		}
	}
	mesh.BoundingMin, mesh.BoundingMax = lo, hi
}
