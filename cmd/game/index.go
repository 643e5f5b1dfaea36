package main

const indexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Anvil of Apotheosis</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 1.5rem; background: #15171c; color: #e6e6e6; }
    h1 { font-size: 1.4rem; margin: 0 0 1rem; }
    .grid { display: grid; grid-template-columns: 12rem 1fr; gap: .4rem 1rem; max-width: 40rem; }
    select, input { background: #22252d; color: inherit; border: 1px solid #3a3f4b; padding: .25rem; }
    table { border-collapse: collapse; margin-top: 1rem; }
    td, th { border: 1px solid #3a3f4b; padding: .25rem .5rem; text-align: center; }
    .msg { color: #f0b35c; }
    .blessed { color: #8fd18f; }
    footer { margin-top: 2rem; font-size: .75rem; color: #777; }
  </style>
</head>
<body>
  <h1>Anvil of Apotheosis</h1>
  <div class="grid">
    <label for="fighterName">Name</label><input id="fighterName" />
    <label for="fighterType">Fighter</label><select id="fighterType"></select>
    <label for="factionRunemark">Faction Runemark</label><select id="factionRunemark"></select>
    <label for="archetype">Archetype</label><select id="archetype"></select>
    <label for="primaryWeapon">Primary Weapon</label><select id="primaryWeapon"></select>
    <label for="secondaryWeapon">Secondary Equipment</label><select id="secondaryWeapon"></select>
    <label for="mount">Mount</label><select id="mount"></select>
    <label for="runemark">Additional Runemark</label><select id="runemark"></select>
    <label for="blessing">Divine Blessing</label><select id="blessing"></select>
    <label for="blessingTargetWeapon">Blessing Target</label><select id="blessingTargetWeapon"></select>
  </div>
  <p>
    <button id="save">Save</button>
    <select id="builds"></select> <button id="load">Load</button>
  </p>
  <div id="summary"></div>
  <ul id="messages"></ul>
  <footer>build {{BUILD_VERSION}}</footer>
<script>
const fields = ["fighterName","fighterType","factionRunemark","archetype","primaryWeapon","secondaryWeapon","mount","runemark","blessing","blessingTargetWeapon"];
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
const $ = id => document.getElementById(id);
const send = (type, data) => ws.send(JSON.stringify({type, data}));

function fill(id, opts, value, withNone, enabled) {
  const el = $(id);
  el.innerHTML = "";
  const list = (withNone ? ["None"] : []).concat(opts || []);
  for (const o of list) el.add(new Option(o, o));
  el.value = value;
  el.disabled = enabled === false;
}

function selection() {
  const sel = {};
  for (const f of fields) sel[f] = $(f).value;
  return sel;
}

function render(res) {
  const o = res.options, s = res.selection;
  $("fighterName").value = s.fighterName;
  fill("fighterType", o.fighters, s.fighterType, false);
  fill("factionRunemark", o.factions, s.factionRunemark, !o.factionRequired);
  fill("archetype", o.archetypes, s.archetype, false);
  fill("primaryWeapon", o.primaryWeapons, s.primaryWeapon, true);
  fill("secondaryWeapon", o.secondaryWeapons, s.secondaryWeapon, true, o.secondaryEnabled);
  fill("mount", o.mounts, s.mount, true);
  fill("runemark", o.runemarks, s.runemark, true);
  fill("blessing", o.blessings, s.blessing, true);
  fill("blessingTargetWeapon", o.blessingTargets, s.blessingTargetWeapon, true, o.blessingTargetEnabled);

  const st = res.stats;
  let html = "<h2>" + res.name + " (" + res.points.total + " pts)</h2>";
  html += "<p>Move " + st.Mv + " | Toughness " + st.T + " | Wounds " + st.W + "</p>";
  html += "<p>Runemarks: " + ([res.factionRunemark].concat(res.runemarks)).join(", ") + "</p>";
  html += "<table><tr><th>Attack</th><th>Range</th><th>A</th><th>S</th><th>D/C</th></tr>";
  for (const p of res.profiles) {
    html += "<tr class='" + (p.blessed ? "blessed" : "") + "'><td>" + p.name + "</td><td>" + p.range[0] + "-" + p.range[1] +
      "</td><td>" + p.attacks + "</td><td>" + p.strength + "</td><td>" + p.damage + "/" + p.crit + "</td></tr>";
  }
  html += "</table><p>Blessing: " + res.blessingText + "</p>";
  $("summary").innerHTML = html;
  $("messages").innerHTML = res.messages.map(m => "<li class='msg'>" + m + "</li>").join("");
}

ws.onopen = () => send("list", null);
ws.onmessage = ev => {
  const m = JSON.parse(ev.data);
  switch (m.type) {
    case "summary": render(m.data); break;
    case "builds": fill("builds", m.data, m.data[0] || "", false); break;
    case "saved": send("list", null); break;
    case "error": $("messages").innerHTML = "<li class='msg'>" + m.data.message + "</li>"; break;
  }
};
for (const f of fields) $(f).addEventListener("change", () => send("select", selection()));
$("save").onclick = () => send("save", {name: $("fighterName").value});
$("load").onclick = () => send("load", {name: $("builds").value});
</script>
</body>
</html>
`
