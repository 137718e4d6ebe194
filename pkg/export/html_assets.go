package export

// htmlCSS is the stylesheet for the interactive page.
const htmlCSS = `
:root { --bg:#1e1f29; --panel:#282a36; --text:#f8f8f2; --muted:#6272a4; --accent:#bd93f9; }
* { box-sizing:border-box; margin:0; padding:0; }
body { font-family:-apple-system,"Segoe UI",Roboto,sans-serif; background:var(--bg); color:var(--text); height:100vh; display:flex; flex-direction:column; }
header { padding:10px 16px; background:var(--panel); border-bottom:1px solid #44475a; }
header h1 { font-size:18px; margin-bottom:8px; }
#controls { display:flex; gap:8px; align-items:center; flex-wrap:wrap; }
#controls input,#controls select,#controls button { background:var(--bg); color:var(--text); border:1px solid #44475a; border-radius:4px; padding:5px 9px; font-size:13px; }
#controls button { cursor:pointer; }
#controls button.active { border-color:var(--accent); color:var(--accent); }
#countMsg { color:var(--muted); font-size:13px; margin-left:auto; }
main { flex:1; display:flex; min-height:0; }
#listPane { width:300px; overflow-y:auto; background:var(--panel); border-right:1px solid #44475a; }
#orgList { list-style:none; }
#orgList li { padding:8px 12px; border-bottom:1px solid #343746; cursor:pointer; }
#orgList li:hover,#orgList li.selected { background:#44475a; }
#orgList .name { font-weight:600; font-size:13px; }
#orgList .meta { font-size:11px; color:var(--muted); }
#graphPane { flex:1; position:relative; min-width:0; }
#graph { width:100%; height:100%; }
#legend { position:absolute; bottom:12px; left:12px; background:rgba(40,42,54,.9); border:1px solid #44475a; border-radius:6px; padding:8px 12px; font-size:12px; }
#legend .row { display:flex; align-items:center; gap:6px; margin:2px 0; }
#legend .swatch { width:10px; height:10px; border-radius:50%; display:inline-block; }
#detailPane { width:320px; overflow-y:auto; background:var(--panel); border-left:1px solid #44475a; padding:16px; position:relative; }
#detailPane h2 { font-size:16px; margin-bottom:4px; }
#detailPane h3 { font-size:13px; margin:12px 0 6px; color:var(--accent); }
#detailPane p,#detailPane li { font-size:13px; line-height:1.5; }
#detailPane ul { padding-left:18px; }
#detailPane .muted { color:var(--muted); }
#closeDetail { position:absolute; top:8px; right:10px; background:none; border:none; color:var(--muted); font-size:18px; cursor:pointer; }
#tooltip { position:absolute; pointer-events:none; background:rgba(20,20,28,.95); border:1px solid #44475a; border-radius:4px; padding:6px 10px; font-size:12px; max-width:260px; z-index:10; }
.hidden { display:none !important; }
.node { cursor:pointer; }
.node-label { font-size:10px; fill:#f8f8f2; pointer-events:none; }
`

// htmlJS drives the force layout, filtering, and highlighting. It reads the
// embedded JSON document and keeps the list pane and graph pane in sync.
const htmlJS = `
(function(){
var data = JSON.parse(document.getElementById('networkData').textContent);
var cfg = data.config || {};
var colors = data.colors || {};

var state = { search:'', typeFilter:'', sortKey:'name', selected:null, labels: cfg.labelsVisible !== false };

var OP_FULL = 1.0, OP_DIM = 0.3, OP_EDGE_REST = 0.6;

var graphPane = document.getElementById('graphPane');
var width = graphPane.clientWidth || 900;
var height = graphPane.clientHeight || 600;

var svg = d3.select('#graph').attr('viewBox', [0,0,width,height]);
var container = svg.append('g');

var zoom = d3.zoom().scaleExtent([0.1,4]).on('zoom', function(e){ container.attr('transform', e.transform); });
svg.call(zoom);
svg.on('click', function(){ selectNode(null); });

// Adjacency for one-hop highlighting
var neighbors = {};
data.links.forEach(function(l){
  var s = l.source.id || l.source, t = l.target.id || l.target;
  (neighbors[s] = neighbors[s] || {})[t] = true;
  (neighbors[t] = neighbors[t] || {})[s] = true;
});
function isConnected(a,b){ return a===b || (neighbors[a] && neighbors[a][b]); }

var sim = d3.forceSimulation(data.nodes)
  .force('link', d3.forceLink(data.links).id(function(d){ return d.id; }).distance(cfg.linkDistance || 120))
  .force('charge', d3.forceManyBody().strength(cfg.chargeStrength || -180))
  .force('center', d3.forceCenter(width/2, height/2))
  .force('collision', d3.forceCollide().radius((cfg.collisionRadius || 24)));

var link = container.append('g').selectAll('line')
  .data(data.links).join('line')
  .attr('stroke', '#6272a4')
  .attr('stroke-width', 1.5)
  .attr('stroke-opacity', OP_EDGE_REST);

var node = container.append('g').selectAll('circle')
  .data(data.nodes).join('circle')
  .attr('class','node')
  .attr('r', function(d){ return (cfg.nodeSize || 10) * (d.unknown ? 0.6 : 1); })
  .attr('fill', function(d){ return colors[d.type] || colors.unknown || '#999'; })
  .attr('stroke', '#1e1f29')
  .attr('stroke-width', 1.5)
  .on('click', function(e,d){ e.stopPropagation(); selectNode(d.id); })
  .on('mouseover', showTooltip)
  .on('mousemove', moveTooltip)
  .on('mouseout', hideTooltip)
  .call(d3.drag()
    .on('start', function(e,d){ if(!e.active) sim.alphaTarget(0.3).restart(); d.fx=d.x; d.fy=d.y; })
    .on('drag', function(e,d){ d.fx=e.x; d.fy=e.y; })
    .on('end', function(e,d){ if(!e.active) sim.alphaTarget(0); d.fx=null; d.fy=null; }));

var label = container.append('g').selectAll('text')
  .data(data.nodes).join('text')
  .attr('class','node-label')
  .attr('dx', 13).attr('dy', 4)
  .text(function(d){ return d.name; });

sim.on('tick', function(){
  link.attr('x1', function(d){ return d.source.x; })
      .attr('y1', function(d){ return d.source.y; })
      .attr('x2', function(d){ return d.target.x; })
      .attr('y2', function(d){ return d.target.y; });
  node.attr('cx', function(d){ return d.x; }).attr('cy', function(d){ return d.y; });
  label.attr('x', function(d){ return d.x; }).attr('y', function(d){ return d.y; });
});

// --- tooltip ---
var tooltip = document.getElementById('tooltip');
function showTooltip(e,d){
  tooltip.innerHTML = '<strong>'+esc(d.name)+'</strong><br>'+esc(d.typeLabel)+
    (d.contactPerson ? '<br>'+esc(d.contactPerson) : '')+
    '<br><span style="color:#6272a4">'+d.degree+' connections</span>';
  tooltip.classList.remove('hidden');
  moveTooltip(e);
}
function moveTooltip(e){ tooltip.style.left = (e.pageX+12)+'px'; tooltip.style.top = (e.pageY+12)+'px'; }
function hideTooltip(){ tooltip.classList.add('hidden'); }
function esc(s){ var d=document.createElement('div'); d.textContent=s||''; return d.innerHTML; }

// --- filtering and sorting (matches the terminal viewer's semantics) ---
function matches(d){
  if (d.unknown) return !state.typeFilter && !state.search;
  if (state.typeFilter && d.type !== state.typeFilter) return false;
  if (!state.search) return true;
  var hay = [d.name, d.contactPerson, d.email, d.description, d.address]
    .concat(d.tags || []).join(' ').toLowerCase();
  return hay.indexOf(state.search) !== -1;
}

function sortField(d){
  if (state.sortKey === 'type') return d.typeLabel || '';
  if (state.sortKey === 'contact') return d.contactPerson || '';
  return d.name || '';
}

function visibleOrgs(){
  var out = data.nodes.filter(function(d){ return !d.unknown && matches(d); });
  out.sort(function(a,b){ return sortField(a).localeCompare(sortField(b), undefined, {sensitivity:'base'}) || a.id.localeCompare(b.id); });
  return out;
}

// --- highlighting ---
function nodeOpacity(d){
  if (!matches(d)) return 0;
  if (!state.selected) return OP_FULL;
  return isConnected(state.selected, d.id) ? OP_FULL : OP_DIM;
}
function edgeOpacity(l){
  var s = l.source.id, t = l.target.id;
  if (!matches(l.source) || !matches(l.target)) return 0;
  if (!state.selected) return OP_EDGE_REST;
  return (s === state.selected || t === state.selected) ? OP_FULL : OP_DIM;
}
function labelOpacity(d){
  if (!state.labels) return 0;
  return nodeOpacity(d);
}

function refresh(){
  node.attr('opacity', nodeOpacity);
  link.attr('stroke-opacity', edgeOpacity);
  label.attr('opacity', labelOpacity);
  renderList();
  renderCount();
}

function renderCount(){
  var total = data.nodes.filter(function(d){ return !d.unknown; }).length;
  var shown = visibleOrgs().length;
  var el = document.getElementById('countMsg');
  el.textContent = (state.search || state.typeFilter)
    ? 'Showing '+shown+' of '+total+' organizations'
    : total+' organizations';
}

function renderList(){
  var ul = document.getElementById('orgList');
  ul.innerHTML = '';
  visibleOrgs().forEach(function(d){
    var li = document.createElement('li');
    if (d.id === state.selected) li.className = 'selected';
    li.innerHTML = '<div class="name">'+esc(d.name)+'</div>'+
      '<div class="meta">'+esc(d.typeLabel)+(d.contactPerson ? ' • '+esc(d.contactPerson) : '')+'</div>';
    li.onclick = function(){ selectNode(d.id); };
    ul.appendChild(li);
  });
}

// --- selection and detail pane ---
function selectNode(id){
  state.selected = (state.selected === id) ? null : id;
  var pane = document.getElementById('detailPane');
  if (!state.selected) { pane.classList.add('hidden'); refresh(); return; }
  renderDetail(state.selected);
  pane.classList.remove('hidden');
  refresh();
}

var byId = {};
data.nodes.forEach(function(d){ byId[d.id] = d; });

function direction(l, focal){
  var s = l.source.id || l.source, t = l.target.id || l.target;
  if (l.mutual) return 'mutual';
  return s === focal ? 'outgoing' : (t === focal ? 'incoming' : '');
}

function renderDetail(id){
  var d = byId[id];
  if (!d || d.unknown) return;
  var html = '<h2>'+esc(d.name)+'</h2><p class="muted">'+esc(d.typeLabel)+'</p>';
  if (d.contactPerson) html += '<p>Contact: '+esc(d.contactPerson)+'</p>';
  if (d.email) html += '<p>Email: <a href="mailto:'+esc(d.email)+'">'+esc(d.email)+'</a></p>';
  if (d.phone) html += '<p>Phone: '+esc(d.phone)+'</p>';
  if (d.website) html += '<p>Website: <a href="'+esc(d.website)+'" target="_blank" rel="noopener">'+esc(d.website)+'</a></p>';
  if (d.address) html += '<p>'+esc(d.address)+'</p>';
  if (d.tags && d.tags.length) html += '<p class="muted">'+d.tags.map(esc).join(', ')+'</p>';
  if (d.description) html += '<h3>About</h3><p>'+esc(d.description)+'</p>';

  var rows = [];
  data.links.forEach(function(l){
    var dir = direction(l, id);
    if (!dir) return;
    var s = l.source.id || l.source, t = l.target.id || l.target;
    var otherId = (s === id) ? t : s;
    var other = byId[otherId];
    if (!other || other.unknown) return; // unresolved ends stay graph-only
    var text;
    if (dir === 'mutual') text = esc(l.type)+' between '+esc(d.name)+' and '+esc(other.name);
    else if (dir === 'outgoing') text = esc(l.type)+' to '+esc(other.name);
    else text = esc(l.type)+' from '+esc(other.name);
    if (l.description) text += ' <span class="muted">('+esc(l.description)+')</span>';
    rows.push('<li>'+text+'</li>');
  });
  html += '<h3>Relationships ('+rows.length+')</h3>';
  html += rows.length ? '<ul>'+rows.join('')+'</ul>' : '<p class="muted">No connections.</p>';
  document.getElementById('detailBody').innerHTML = html;
}

// --- legend ---
(function(){
  var seen = {};
  data.nodes.forEach(function(d){ if(!d.unknown) seen[d.type] = d.typeLabel; });
  var el = document.getElementById('legend');
  Object.keys(seen).sort().forEach(function(t){
    var row = document.createElement('div');
    row.className = 'row';
    row.innerHTML = '<span class="swatch" style="background:'+(colors[t]||'#999')+'"></span>'+esc(seen[t]);
    el.appendChild(row);
  });
})();

// --- controls ---
(function(){
  var seen = {};
  data.nodes.forEach(function(d){ if(!d.unknown) seen[d.type] = d.typeLabel; });
  var sel = document.getElementById('typeFilter');
  Object.keys(seen).sort().forEach(function(t){
    var opt = document.createElement('option');
    opt.value = t; opt.textContent = seen[t];
    sel.appendChild(opt);
  });
})();

document.getElementById('search').addEventListener('input', function(){
  state.search = this.value.toLowerCase();
  refresh();
});
document.getElementById('typeFilter').addEventListener('change', function(){
  state.typeFilter = this.value;
  refresh();
});
document.getElementById('sortKey').addEventListener('change', function(){
  state.sortKey = this.value;
  refresh();
});
document.getElementById('labelsBtn').addEventListener('click', function(){
  state.labels = !state.labels;
  this.classList.toggle('active', !state.labels);
  refresh();
});
document.getElementById('clearBtn').addEventListener('click', function(){
  state.search = ''; state.typeFilter = ''; state.sortKey = 'name';
  document.getElementById('search').value = '';
  document.getElementById('typeFilter').value = '';
  document.getElementById('sortKey').value = 'name';
  refresh();
});
document.getElementById('closeDetail').addEventListener('click', function(){ selectNode(state.selected); });
document.addEventListener('keydown', function(e){
  if (e.key === 'Escape' && state.selected) selectNode(state.selected);
});

// Refresh support for serve mode: re-fetch with a timestamp so intermediary
// caches never serve a stale dataset.
if (cfg.dataURL) {
  var btn = document.getElementById('refreshBtn');
  btn.classList.remove('hidden');
  btn.addEventListener('click', function(){
    fetch(cfg.dataURL + (cfg.dataURL.indexOf('?') === -1 ? '?' : '&') + 't=' + Date.now())
      .then(function(r){ if (!r.ok) throw new Error('HTTP '+r.status); return r.json(); })
      .then(function(){ location.reload(); })
      .catch(function(err){ console.error('refresh failed', err); });
  });
}

refresh();
})();
`
